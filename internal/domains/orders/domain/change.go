package domain

import "time"

// ChangeEligibility explains whether an order may be rescheduled.
type ChangeEligibility struct {
	Eligible bool
	Reason   string
	// StaffRequired is true when the change must name a new staff member.
	StaffRequired bool
}

const (
	ReasonNotPaid       = "only paid orders can be changed"
	ReasonAlreadyUsed   = "this order has already used its one change"
	ReasonExecutionPast = "the appointment date has already passed"
)

// ChangeEligibility evaluates the reschedule window at now. Calendar days are
// compared in now's location, so callers pass now in the shop's time zone.
func (o *Order) ChangeEligibility(now time.Time) ChangeEligibility {
	result := ChangeEligibility{StaffRequired: o.Type == TypeCustomerRequest}
	switch {
	case o.Status != StatusPaid:
		result.Reason = ReasonNotPaid
	case o.ChangeConsumed:
		result.Reason = ReasonAlreadyUsed
	case !o.ExecutionDate.After(now) && !SameDay(o.ExecutionDate, now, now.Location()):
		result.Reason = ReasonExecutionPast
	default:
		result.Eligible = true
	}
	return result
}

// SameDay compares the calendar dates of a and b as seen in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
