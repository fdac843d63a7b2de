package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	firstSlotHour = 9
	lastSlotHour  = 20
	slotStep      = 30 * time.Minute
	// SlotsPerDay covers 09:00 through 20:30 inclusive.
	SlotsPerDay = (lastSlotHour-firstSlotHour)*2 + 2

	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrSlotNotAligned   = errors.New("time slot must start on the hour or half hour")
	ErrSlotOutsideHours = errors.New("time slot must be between 09:00 and 20:30")
	ErrSlotInPast       = errors.New("time slot is in the past")
)

// Slot is one bookable half hour.
type Slot struct {
	Label      string
	Start      time.Time
	Selectable bool
}

// GenerateSlots lists the day's slots for forDate as seen at now.
// Past dates have no slots; on today every slot starting at or before now is disabled.
func GenerateSlots(forDate, now time.Time) []Slot {
	loc := forDate.Location()
	day := startOfDay(forDate)
	today := startOfDay(now.In(loc))
	if day.Before(today) {
		return []Slot{}
	}
	isToday := day.Equal(today)

	// Wall-clock construction keeps labels right on DST transition days.
	y, m, d := day.Date()
	slots := make([]Slot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		minutes := firstSlotHour*60 + i*int(slotStep/time.Minute)
		at := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
		slots = append(slots, Slot{
			Label:      at.Format(ClockLayout),
			Start:      at,
			Selectable: !isToday || at.After(now),
		})
	}
	return slots
}

// ValidateSlot re-checks a staged execution time against the booking window.
func ValidateSlot(execution, now time.Time) error {
	if execution.Second() != 0 || execution.Nanosecond() != 0 || execution.Minute()%30 != 0 {
		return ErrSlotNotAligned
	}
	minutes := execution.Hour()*60 + execution.Minute()
	if minutes < firstSlotHour*60 || minutes > lastSlotHour*60+30 {
		return ErrSlotOutsideHours
	}
	if !execution.After(now) {
		return ErrSlotInPast
	}
	return nil
}

// ParseExecution combines a YYYY-MM-DD date and HH:MM clock in loc.
func ParseExecution(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	at, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse execution time: %w", err)
	}
	return at, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
