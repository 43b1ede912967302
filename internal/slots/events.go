package slots

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var eventNamespace = uuid.MustParse("6f1d7c1e-52a4-4c55-9a4e-2b3f0c7e9d11")

// eventID is stable for the same source record so recomputation yields the
// same ids.
func eventID(kind string, parts ...int64) string {
	b := []byte(kind)
	for _, p := range parts {
		b = append(b, ':')
		b = strconv.AppendInt(b, p, 10)
	}
	return uuid.NewSHA1(eventNamespace, b).String()
}

type groupKey struct {
	employee int32
	typeID   int32
}

type timedSlot struct {
	id int32
	at time.Time
}

// AvailabilitySlotsToEvents merges back-to-back slots of the same employee and
// type into one event per contiguous run. A gap of any size starts a new
// event. Unparseable timestamps and repeated (employee, type, time) slots are
// skipped.
func AvailabilitySlotsToEvents(slots []AvailabilitySlot, unitMinutes int) ([]Event, error) {
	if unitMinutes <= 0 {
		return nil, fmt.Errorf("%w: unit must be positive, got %d", ErrInvalidArgument, unitMinutes)
	}
	unit := time.Duration(unitMinutes) * time.Minute

	groups := map[groupKey][]timedSlot{}
	seen := map[runKey]struct{}{}
	var order []groupKey
	for _, s := range slots {
		ts, ok := s.Time()
		if !ok {
			continue
		}
		// one event per instant; later duplicates of a slot are dropped
		rk := runKey{s.EmployeeID, s.TypeID, ts.Unix()}
		if _, dup := seen[rk]; dup {
			continue
		}
		seen[rk] = struct{}{}
		k := groupKey{s.EmployeeID, s.TypeID}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], timedSlot{id: s.ID, at: ts})
	}

	var events []Event
	for _, k := range order {
		run := groups[k]
		sort.SliceStable(run, func(i, j int) bool { return run[i].at.Before(run[j].at) })

		var cur *Event
		for _, s := range run {
			if cur != nil && cur.EndDate.Equal(s.at) {
				cur.EndDate = s.at.Add(unit)
				cur.SlotIDs = append(cur.SlotIDs, s.id)
				continue
			}
			if cur != nil {
				events = append(events, *cur)
			}
			cur = &Event{
				ID:         eventID(SourceAvailability, int64(k.employee), int64(k.typeID), s.at.Unix()),
				EmployeeID: k.employee,
				TypeID:     k.typeID,
				StartDate:  s.at,
				EndDate:    s.at.Add(unit),
				SlotIDs:    []int32{s.id},
				Source:     SourceAvailability,
			}
		}
		if cur != nil {
			events = append(events, *cur)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		return a.TypeID < b.TypeID
	})
	return events, nil
}

// BookingsToEvents maps bookings onto their time range. Bookings whose start or
// end cannot be parsed are dropped.
func BookingsToEvents(bookings []Booking) []Event {
	events := make([]Event, 0, len(bookings))
	for _, b := range bookings {
		start, ok := ParseTimestamp(b.StartTime)
		if !ok {
			continue
		}
		end, ok := ParseTimestamp(b.EndTime)
		if !ok {
			continue
		}
		id := b.ID
		events = append(events, Event{
			ID:           eventID(SourceBooking, int64(b.ID)),
			EmployeeID:   b.EmployeeID,
			StartDate:    start,
			EndDate:      end,
			TypeID:       b.TypeID,
			IsBooking:    true,
			BookingID:    &id,
			BookingEmail: b.UserEmail,
			Source:       SourceBooking,
			Title:        b.TypeTitle,
		})
	}
	return events
}
