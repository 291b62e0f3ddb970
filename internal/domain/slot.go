package domain

import (
	"errors"
	"time"
)

// SlotStatus represents the lifecycle state of a bookable slot
type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "open"
	SlotStatusRequested SlotStatus = "requested"
	SlotStatusConfirmed SlotStatus = "confirmed"
	// SlotStatusDeclined is never stored: a decline rewrites the slot back to open.
	// Legacy records may still carry it.
	SlotStatusDeclined SlotStatus = "declined"
)

var (
	// ErrInvalidTransition is returned when a slot cannot move to the requested state
	ErrInvalidTransition = errors.New("domain: invalid slot status transition")
)

// slotTransitions defines the slot state machine. Decline is requested -> open.
var slotTransitions = map[SlotStatus][]SlotStatus{
	SlotStatusOpen:      {SlotStatusRequested},
	SlotStatusRequested: {SlotStatusConfirmed, SlotStatusOpen},
	SlotStatusConfirmed: {},
}

// IsValid returns true if the status may be stored on a slot
func (s SlotStatus) IsValid() bool {
	_, ok := slotTransitions[s]
	return ok
}

// CanTransitionTo returns true if the state machine allows moving to target
func (s SlotStatus) CanTransitionTo(target SlotStatus) bool {
	for _, next := range slotTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Slot is a single bookable time offer
type Slot struct {
	ID       string
	Date     string // YYYY-MM-DD, opaque
	Time     string // HH:MM, opaque
	Duration int    // minutes, one of AllowedDurations
	Status   SlotStatus

	// Present iff Status is requested or confirmed
	Booking *Booking
	// Present iff Status is requested
	ApprovalToken string

	CreatedAt time.Time
}

// NewSlot creates an open slot
func NewSlot(id, date, clock string, duration int, now time.Time) *Slot {
	return &Slot{
		ID:        id,
		Date:      date,
		Time:      clock,
		Duration:  duration,
		Status:    SlotStatusOpen,
		CreatedAt: now.UTC(),
	}
}

// IsOpen returns true if the slot is visible to the public and may be requested
func (s *Slot) IsOpen() bool {
	return s.Status == SlotStatusOpen
}

// IsAwaitingDecision returns true if the coach still has to approve or decline
func (s *Slot) IsAwaitingDecision() bool {
	return s.Status == SlotStatusRequested && s.ApprovalToken != ""
}

// IsConfirmed returns true if the booking was approved
func (s *Slot) IsConfirmed() bool {
	return s.Status == SlotStatusConfirmed
}

// MarkRequested attaches a booking and the approval token to an open slot
func (s *Slot) MarkRequested(booking Booking, token string) error {
	if !s.Status.CanTransitionTo(SlotStatusRequested) || token == "" {
		return ErrInvalidTransition
	}
	s.Status = SlotStatusRequested
	s.Booking = &booking
	s.ApprovalToken = token
	return nil
}

// Confirm finalizes a requested slot; the token is consumed
func (s *Slot) Confirm() error {
	if !s.Status.CanTransitionTo(SlotStatusConfirmed) {
		return ErrInvalidTransition
	}
	s.Status = SlotStatusConfirmed
	s.ApprovalToken = ""
	return nil
}

// Reopen declines a requested slot: booking and token are cleared so the slot can be booked again
func (s *Slot) Reopen() error {
	if s.Status != SlotStatusRequested {
		return ErrInvalidTransition
	}
	s.Status = SlotStatusOpen
	s.Booking = nil
	s.ApprovalToken = ""
	return nil
}

// Normalize enforces the booking/token coupling on data read from storage.
// Legacy "declined" and empty statuses are folded into open.
func (s *Slot) Normalize() {
	switch s.Status {
	case SlotStatusOpen, SlotStatusDeclined, "":
		s.Status = SlotStatusOpen
		s.Booking = nil
		s.ApprovalToken = ""
	case SlotStatusConfirmed:
		s.ApprovalToken = ""
	}
}

// Clone returns a deep copy, so a transition can be prepared without touching the read value
func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	c := *s
	if s.Booking != nil {
		b := s.Booking.Clone()
		c.Booking = &b
	}
	return &c
}

// SlotCondition is the precondition of a conditional write.
// ApprovalToken is only compared when not empty.
type SlotCondition struct {
	Status        SlotStatus
	ApprovalToken string
}

// Matches reports whether the stored slot satisfies the condition
func (c SlotCondition) Matches(current *Slot) bool {
	if current == nil || current.Status != c.Status {
		return false
	}
	if c.ApprovalToken != "" && current.ApprovalToken != c.ApprovalToken {
		return false
	}
	return true
}
