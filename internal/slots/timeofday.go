package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %d:%d", ErrInvalidArgument, hour, minute)
	}
	return t, nil
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// ParseTimeOfDay reads "HH:MM". Anything after the minutes (":SS", ".000") is ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) < 2 {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q", ErrInvalidArgument, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: hour in %q", ErrInvalidArgument, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: minute in %q", ErrInvalidArgument, s)
	}
	return NewTimeOfDay(h, m)
}

// String renders the zero padded "HH:MM" form accepted by ParseTimeOfDay.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeOfDayOf returns the wall-clock time of ts in loc.
func TimeOfDayOf(ts time.Time, loc *time.Location) TimeOfDay {
	if loc != nil {
		ts = ts.In(loc)
	}
	return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute()}
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch {
	case t.Minutes() < o.Minutes():
		return -1
	case t.Minutes() > o.Minutes():
		return 1
	}
	return 0
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.Compare(o) > 0 }

func MinTime(a, b TimeOfDay) TimeOfDay {
	if b.Before(a) {
		return b
	}
	return a
}

func MaxTime(a, b TimeOfDay) TimeOfDay {
	if b.After(a) {
		return b
	}
	return a
}

// On places t on the calendar date of day, in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

// InWindow reports whether t lies in [start, end] using the hour/minute
// boundary rule: the minute is only checked against the boundary in the
// boundary hour itself.
func (t TimeOfDay) InWindow(start, end TimeOfDay) bool {
	if t.Hour < start.Hour || t.Hour > end.Hour {
		return false
	}
	if t.Hour == start.Hour && t.Minute < start.Minute {
		return false
	}
	if t.Hour == end.Hour && t.Minute > end.Minute {
		return false
	}
	return true
}
