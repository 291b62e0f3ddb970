package domain

import "time"

// Booking is the customer request attached to a slot
type Booking struct {
	Name              string
	Email             string
	Phone             string
	Message           *string
	ContactPreference *string
	RequestedAt       time.Time
}

// Clone returns a copy that shares no pointers with b
func (b Booking) Clone() Booking {
	c := b
	if b.Message != nil {
		m := *b.Message
		c.Message = &m
	}
	if b.ContactPreference != nil {
		p := *b.ContactPreference
		c.ContactPreference = &p
	}
	return c
}
