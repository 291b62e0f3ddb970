package create_slot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{`60`, 60, false},
		{`"90"`, 90, false},
		{`" 45 "`, 45, false},
		{`60.5`, 0, true},
		{`"sixty"`, 0, true},
		{`null`, 0, true},
		{``, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDuration(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
