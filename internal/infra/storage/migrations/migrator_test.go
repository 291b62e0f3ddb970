package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embedded, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	first, err := fs.ReadFile(embedded, dir+"/"+entries[0].Name())
	require.NoError(t, err)

	body := string(first)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "00001_"))
	assert.Contains(t, body, "-- +goose Up")
	assert.Contains(t, body, "-- +goose Down")
	assert.Contains(t, body, "CREATE TABLE IF NOT EXISTS slots")
}
