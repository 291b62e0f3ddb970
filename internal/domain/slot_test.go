package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestedSlot(t *testing.T) *Slot {
	t.Helper()
	s := NewSlot("slot-1", "2025-03-01", "10:00", 60, time.Now())
	require.NoError(t, s.MarkRequested(Booking{Name: "Ann", Email: "ann@example.com", Phone: "+100"}, "tok"))
	return s
}

func TestSlotStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to SlotStatus
		want     bool
	}{
		{SlotStatusOpen, SlotStatusRequested, true},
		{SlotStatusOpen, SlotStatusConfirmed, false},
		{SlotStatusRequested, SlotStatusConfirmed, true},
		{SlotStatusRequested, SlotStatusOpen, true},
		{SlotStatusConfirmed, SlotStatusOpen, false},
		{SlotStatusConfirmed, SlotStatusRequested, false},
		{SlotStatusDeclined, SlotStatusOpen, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.False(t, SlotStatusDeclined.IsValid())
	assert.True(t, SlotStatusConfirmed.IsValid())
}

func TestSlot_MarkRequested(t *testing.T) {
	s := newRequestedSlot(t)
	assert.Equal(t, SlotStatusRequested, s.Status)
	assert.Equal(t, "tok", s.ApprovalToken)
	require.NotNil(t, s.Booking)
	assert.True(t, s.IsAwaitingDecision())

	err := s.MarkRequested(Booking{Name: "Bob"}, "other")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Ann", s.Booking.Name)
}

func TestSlot_MarkRequestedNeedsToken(t *testing.T) {
	s := NewSlot("slot-1", "2025-03-01", "10:00", 60, time.Now())
	assert.ErrorIs(t, s.MarkRequested(Booking{Name: "Ann"}, ""), ErrInvalidTransition)
	assert.True(t, s.IsOpen())
}

func TestSlot_Confirm(t *testing.T) {
	s := newRequestedSlot(t)
	require.NoError(t, s.Confirm())
	assert.True(t, s.IsConfirmed())
	assert.Empty(t, s.ApprovalToken)
	assert.NotNil(t, s.Booking)

	assert.ErrorIs(t, s.Confirm(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Reopen(), ErrInvalidTransition)
}

func TestSlot_Reopen(t *testing.T) {
	s := newRequestedSlot(t)
	require.NoError(t, s.Reopen())
	assert.True(t, s.IsOpen())
	assert.Nil(t, s.Booking)
	assert.Empty(t, s.ApprovalToken)
}

func TestSlot_Normalize(t *testing.T) {
	msg := "hi"
	legacy := &Slot{
		ID:            "legacy",
		Status:        SlotStatusDeclined,
		Booking:       &Booking{Name: "Ann", Message: &msg},
		ApprovalToken: "stale",
	}
	legacy.Normalize()
	assert.Equal(t, SlotStatusOpen, legacy.Status)
	assert.Nil(t, legacy.Booking)
	assert.Empty(t, legacy.ApprovalToken)

	confirmed := &Slot{Status: SlotStatusConfirmed, Booking: &Booking{Name: "Ann"}, ApprovalToken: "stale"}
	confirmed.Normalize()
	assert.Empty(t, confirmed.ApprovalToken)
	assert.NotNil(t, confirmed.Booking)

	empty := &Slot{}
	empty.Normalize()
	assert.Equal(t, SlotStatusOpen, empty.Status)
}

func TestSlot_CloneIsDeep(t *testing.T) {
	s := newRequestedSlot(t)
	msg := "original"
	s.Booking.Message = &msg

	c := s.Clone()
	c.Booking.Name = "Changed"
	*c.Booking.Message = "changed"
	c.Status = SlotStatusConfirmed

	assert.Equal(t, "Ann", s.Booking.Name)
	assert.Equal(t, "original", *s.Booking.Message)
	assert.Equal(t, SlotStatusRequested, s.Status)

	var nilSlot *Slot
	assert.Nil(t, nilSlot.Clone())
}

func TestSlotCondition_Matches(t *testing.T) {
	s := newRequestedSlot(t)

	assert.True(t, SlotCondition{Status: SlotStatusRequested}.Matches(s))
	assert.True(t, SlotCondition{Status: SlotStatusRequested, ApprovalToken: "tok"}.Matches(s))
	assert.False(t, SlotCondition{Status: SlotStatusRequested, ApprovalToken: "bad"}.Matches(s))
	assert.False(t, SlotCondition{Status: SlotStatusOpen}.Matches(s))
	assert.False(t, SlotCondition{Status: SlotStatusOpen}.Matches(nil))
}

func TestIsAllowedDuration(t *testing.T) {
	for _, d := range []int{25, 30, 45, 60, 90, 120} {
		assert.True(t, IsAllowedDuration(d), d)
	}
	for _, d := range []int{0, 15, 59, 61, 240, -60} {
		assert.False(t, IsAllowedDuration(d), d)
	}
}
