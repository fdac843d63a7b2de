package domain

import "strings"

// Status marks whether a staff member can take bookings.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Member is an account with the STAFF role.
type Member struct {
	ID       string
	FullName string
	Status   Status
}

// Eligible reports whether the member can be assigned to an order.
func (m Member) Eligible() bool {
	return m.Status == StatusActive
}

// ParseStatus normalizes directory status values.
func ParseStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive
	default:
		return StatusInactive
	}
}
