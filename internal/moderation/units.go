package moderation

import (
	"fmt"
	"time"
)

// Unit is the time unit accepted by tempban and temprole
type Unit string

const (
	UnitSeconds Unit = "s"
	UnitHours   Unit = "h"
	UnitDays    Unit = "d"
)

// Millis returns how many milliseconds one unit spans
func (u Unit) Millis() (int64, bool) {
	switch u {
	case UnitSeconds:
		return 1000, true
	case UnitHours:
		return 60 * 60 * 1000, true
	case UnitDays:
		return 24 * 60 * 60 * 1000, true
	default:
		return 0, false
	}
}

// Span is an amount of a unit as typed by the moderator, e.g. 10s
type Span struct {
	Amount int64
	Unit   Unit
}

func (s Span) String() string {
	return fmt.Sprintf("%d%s", s.Amount, s.Unit)
}

// Duration converts the span with exact integer arithmetic, rejecting unknown
// units, non-positive amounts and spans longer than max.
func (s Span) Duration(max time.Duration) (time.Duration, error) {
	per, ok := s.Unit.Millis()
	if !ok {
		return 0, errInvalidUnit
	}
	if s.Amount <= 0 {
		return 0, errNonPositiveSpan
	}

	maxMillis := max.Milliseconds()
	if s.Amount > maxMillis/per {
		return 0, rejectf("Duration cannot be longer than %d days.", maxMillis/(24*60*60*1000))
	}
	return time.Duration(s.Amount*per) * time.Millisecond, nil
}
