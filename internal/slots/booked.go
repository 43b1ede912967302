package slots

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey renders the calendar date of t in loc. Every date comparison in this
// package goes through it, so both sides of a comparison share one location.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateKeyLayout)
}

// ParseDate reads a "2006-01-02" date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dateKeyLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidArgument, s)
	}
	return d, nil
}

// Criteria narrows the slot set a booking could use. Zero values mean "any".
type Criteria struct {
	EmployeeID  *int32
	TypeID      *int32
	WindowStart *TimeOfDay
	WindowEnd   *TimeOfDay
	// MinUnits is the number of contiguous slots a booking needs.
	MinUnits int
}

// QualifyingSlots applies the caller side filters that OptionsFromSlots leaves
// out: employee, type, time of day window and contiguous duration.
func QualifyingSlots(slots []AvailabilitySlot, c Criteria, unitMinutes int, loc *time.Location) ([]AvailabilitySlot, error) {
	if unitMinutes <= 0 {
		return nil, fmt.Errorf("%w: unit must be positive, got %d", ErrInvalidArgument, unitMinutes)
	}
	if loc == nil {
		loc = time.UTC
	}

	candidates := make([]AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		if c.EmployeeID != nil && s.EmployeeID != *c.EmployeeID {
			continue
		}
		if c.TypeID != nil && s.TypeID != *c.TypeID {
			continue
		}
		candidates = append(candidates, s)
	}

	lengths := runLengths(candidates, time.Duration(unitMinutes)*time.Minute)
	out := make([]AvailabilitySlot, 0, len(candidates))
	for _, s := range candidates {
		ts, ok := s.Time()
		if !ok {
			continue
		}
		tod := TimeOfDayOf(ts, loc)
		if c.WindowStart != nil && tod.Before(*c.WindowStart) {
			continue
		}
		if c.WindowEnd != nil && tod.After(*c.WindowEnd) {
			continue
		}
		if lengths[runKey{s.EmployeeID, s.TypeID, ts.Unix()}] < c.MinUnits {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// BookedDates returns every date from today through today plus one year
// (inclusive, midnight in loc) that has no qualifying slot.
func BookedDates(qualifying []AvailabilitySlot, today time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	open := make(map[string]struct{}, len(qualifying))
	for _, s := range qualifying {
		ts, ok := s.Time()
		if !ok {
			continue
		}
		open[DateKey(ts, loc)] = struct{}{}
	}

	y, m, d := today.In(loc).Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, loc)
	last := first.AddDate(1, 0, 0)

	var booked []time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if _, ok := open[DateKey(day, loc)]; !ok {
			booked = append(booked, day)
		}
	}
	return booked
}
