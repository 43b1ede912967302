package slots

import (
	"fmt"
	"time"
)

// SpanToSlots splits [start, end) into unit-long slot start times. Both ends
// must sit on whole minutes that are multiples of the unit, and the span may
// not be longer than maxSpan.
func SpanToSlots(start, end time.Time, unitMinutes int, maxSpan time.Duration) ([]time.Time, error) {
	if unitMinutes <= 0 {
		return nil, fmt.Errorf("%w: unit must be positive, got %d", ErrInvalidArgument, unitMinutes)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidArgument)
	}
	if end.Sub(start) > maxSpan {
		return nil, fmt.Errorf("%w: span longer than %s", ErrInvalidArgument, maxSpan)
	}
	if start.Second() != 0 || end.Second() != 0 || start.Nanosecond() != 0 || end.Nanosecond() != 0 {
		return nil, fmt.Errorf("%w: seconds provided", ErrInvalidArgument)
	}
	if start.Minute()%unitMinutes != 0 || end.Minute()%unitMinutes != 0 {
		return nil, fmt.Errorf("%w: start and end must align to %d minute units", ErrInvalidArgument, unitMinutes)
	}

	unit := time.Duration(unitMinutes) * time.Minute
	n := int(end.Sub(start) / unit)
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.Add(time.Duration(i)*unit))
	}
	return out, nil
}

// Cost is the price of a booking in pennies: the fixed cost, or cost per unit
// times units.
func Cost(bt BookingType, durationUnits int) int64 {
	if bt.Fixed {
		return int64(bt.Cost)
	}
	return int64(bt.Cost) * int64(durationUnits)
}

// UnitsPerDay is the number of slot units in 24 hours, the longest duration a
// single booking can request.
func UnitsPerDay(unitMinutes int) int {
	if unitMinutes <= 0 {
		return 0
	}
	return 24 * 60 / unitMinutes
}
