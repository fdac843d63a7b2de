package application

import (
	"strings"
	"time"

	"github.com/Apurer/petcare-booking/internal/domains/booking/domain"
	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// SlotAllocator lists the bookable half hours of a day in the shop's time zone.
type SlotAllocator struct {
	loc *time.Location
	now func() time.Time
}

func NewSlotAllocator(loc *time.Location, now func() time.Time) *SlotAllocator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &SlotAllocator{loc: loc, now: now}
}

// Slots parses a YYYY-MM-DD date and generates its slots as seen now.
func (a *SlotAllocator) Slots(date string) ([]domain.Slot, error) {
	day, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(date), a.loc)
	if err != nil {
		return nil, apperr.Validation("date", "must match layout "+domain.DateLayout)
	}
	return domain.GenerateSlots(day, a.now()), nil
}

// Execution parses the booking form date and time and re-checks the slot.
func (a *SlotAllocator) Execution(date, clock string) (time.Time, error) {
	at, err := domain.ParseExecution(strings.TrimSpace(date), strings.TrimSpace(clock), a.loc)
	if err != nil {
		return time.Time{}, apperr.Validation("time", "must be a valid date and HH:MM time")
	}
	if err := domain.ValidateSlot(at, a.now()); err != nil {
		return time.Time{}, mapError(err)
	}
	return at, nil
}

// Location is the shop's time zone.
func (a *SlotAllocator) Location() *time.Location {
	return a.loc
}
