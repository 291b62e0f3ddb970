package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

func TestIssuer_IssueUnique(t *testing.T) {
	issuer := NewIssuer()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := issuer.Issue("slot-1")
		parsed, err := uuid.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestIssuer_Validate(t *testing.T) {
	issuer := NewIssuerWithGenerator(func() string { return "fixed" })

	s := domain.NewSlot("slot-1", "2025-03-01", "10:00", 60, time.Now())
	assert.False(t, issuer.Validate(s, ""), "open slot has no token")
	assert.False(t, issuer.Validate(nil, "fixed"))

	require.NoError(t, s.MarkRequested(domain.Booking{Name: "Ann"}, issuer.Issue(s.ID)))
	assert.True(t, issuer.Validate(s, "fixed"))
	assert.False(t, issuer.Validate(s, "fixe"))
	assert.False(t, issuer.Validate(s, ""))

	require.NoError(t, s.Confirm())
	assert.False(t, issuer.Validate(s, "fixed"), "token is consumed by the decision")
}
