package slots

import (
	"fmt"
	"time"
)

// GenerateOptions lists the candidate times of the working window, one per
// step, for every hour from start.Hour up to but excluding end.Hour. Steps
// that do not divide 60 restart at minute 0 each hour.
func GenerateOptions(start, end TimeOfDay, stepMinutes int) ([]TimeOfDay, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidArgument, stepMinutes)
	}
	var out []TimeOfDay
	for h := start.Hour; h < end.Hour; h++ {
		for m := 0; m < 60; m += stepMinutes {
			if h == start.Hour && m < start.Minute {
				continue
			}
			if h == end.Hour && m > end.Minute {
				continue
			}
			out = append(out, TimeOfDay{Hour: h, Minute: m})
		}
	}
	return out, nil
}

// SlotOption is a bookable start time backed by one availability slot.
// Duration counts the contiguous slots (same employee and type) starting here.
type SlotOption struct {
	TimeOfDay
	SlotID     int32     `json:"availability_slot_id"`
	EmployeeID int32     `json:"employee_id"`
	TypeID     int32     `json:"type_id"`
	Start      time.Time `json:"start"`
	Duration   int       `json:"duration"`
}

type runKey struct {
	employee int32
	typeID   int32
	unix     int64
}

// runLengths maps every parseable slot to the number of back-to-back units
// that start at it.
func runLengths(slots []AvailabilitySlot, unit time.Duration) map[runKey]int {
	present := make(map[runKey]struct{}, len(slots))
	for _, s := range slots {
		ts, ok := s.Time()
		if !ok {
			continue
		}
		present[runKey{s.EmployeeID, s.TypeID, ts.Unix()}] = struct{}{}
	}

	lengths := make(map[runKey]int, len(present))
	var walk func(k runKey) int
	walk = func(k runKey) int {
		if n, ok := lengths[k]; ok {
			return n
		}
		n := 1
		next := runKey{k.employee, k.typeID, k.unix + int64(unit/time.Second)}
		if _, ok := present[next]; ok {
			n += walk(next)
		}
		lengths[k] = n
		return n
	}
	for k := range present {
		walk(k)
	}
	return lengths
}

// OptionsFromSlots converts slots into options within [start, end]. When date
// is non-nil only slots on that calendar date (in loc) are kept. Input order is
// preserved and nothing is deduplicated; unparseable timestamps are skipped.
func OptionsFromSlots(start, end TimeOfDay, slots []AvailabilitySlot, date *time.Time, unitMinutes int, loc *time.Location) ([]SlotOption, error) {
	if unitMinutes <= 0 {
		return nil, fmt.Errorf("%w: unit must be positive, got %d", ErrInvalidArgument, unitMinutes)
	}
	if loc == nil {
		loc = time.UTC
	}
	lengths := runLengths(slots, time.Duration(unitMinutes)*time.Minute)

	var dayKey string
	if date != nil {
		dayKey = DateKey(*date, loc)
	}

	out := make([]SlotOption, 0, len(slots))
	for _, s := range slots {
		ts, ok := s.Time()
		if !ok {
			continue
		}
		if date != nil && DateKey(ts, loc) != dayKey {
			continue
		}
		tod := TimeOfDayOf(ts, loc)
		if !tod.InWindow(start, end) {
			continue
		}
		out = append(out, SlotOption{
			TimeOfDay:  tod,
			SlotID:     s.ID,
			EmployeeID: s.EmployeeID,
			TypeID:     s.TypeID,
			Start:      ts.In(loc),
			Duration:   lengths[runKey{s.EmployeeID, s.TypeID, ts.Unix()}],
		})
	}
	return out, nil
}

// FilterMinDuration keeps options with at least units contiguous slots.
func FilterMinDuration(opts []SlotOption, units int) []SlotOption {
	out := make([]SlotOption, 0, len(opts))
	for _, o := range opts {
		if o.Duration >= units {
			out = append(out, o)
		}
	}
	return out
}
