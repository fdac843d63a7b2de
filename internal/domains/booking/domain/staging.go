package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StaffMode selects who picks the staff member.
type StaffMode string

const (
	StaffModeAuto   StaffMode = "auto"
	StaffModeManual StaffMode = "manual"
)

// Draft is the booking form state kept between submit attempts.
type Draft struct {
	Date        string
	Time        string
	StaffMode   StaffMode
	StaffID     string
	Note        string
	Description string
	// PendingOrderID is the UNPAID order a failed payment left behind.
	PendingOrderID string
}

// Staging is everything a booking session has put aside.
// The four persisted keys are cleared together on commit and abandon.
type Staging struct {
	SessionID        string
	AccountID        string
	CurrentSelection *Selection
	BookingDraft     *Draft
	FinalAmount      decimal.Decimal
	PendingPetID     string
	UpdatedAt        time.Time
}

// PutSelection replaces the staged selection and its amount.
func (s *Staging) PutSelection(selection *Selection) {
	s.CurrentSelection = selection
	if selection == nil {
		s.FinalAmount = decimal.Zero
		return
	}
	s.FinalAmount = selection.FinalAmount
}

// Reset clears every staged key while keeping the session identity.
func (s *Staging) Reset() {
	s.CurrentSelection = nil
	s.BookingDraft = nil
	s.FinalAmount = decimal.Zero
	s.PendingPetID = ""
}

// Clone returns a deep copy.
func (s *Staging) Clone() *Staging {
	if s == nil {
		return nil
	}
	clone := *s
	clone.CurrentSelection = s.CurrentSelection.Clone()
	if s.BookingDraft != nil {
		draft := *s.BookingDraft
		clone.BookingDraft = &draft
	}
	return &clone
}
