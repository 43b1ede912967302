package slots

import (
	"sort"
	"time"
)

func overlaps(a, b Event) bool {
	return a.StartDate.Before(b.EndDate) && b.StartDate.Before(a.EndDate)
}

// GroupEventsByTimePeriod partitions events into connected components of the
// overlap graph: two events share a group iff a chain of pairwise overlaps
// links them. Groups are sorted by start and appear in start order of their
// earliest member.
func GroupEventsByTimePeriod(events []Event) [][]Event {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartDate.Before(sorted[j].StartDate) })

	adj := make([][]int, len(sorted))
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if overlaps(sorted[i], sorted[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	visited := make([]bool, len(sorted))
	var groups [][]Event
	for i := range sorted {
		if visited[i] {
			continue
		}
		var members []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)
			for _, n := range adj[cur] {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		// positions are already in start order
		sort.Ints(members)
		group := make([]Event, 0, len(members))
		for _, m := range members {
			group = append(group, sorted[m])
		}
		groups = append(groups, group)
	}
	return groups
}

// Placement positions an event in a day column: it takes the Column-th of
// Columns equal-width lanes.
type Placement struct {
	Event   Event `json:"event"`
	Column  int   `json:"column"`
	Columns int   `json:"columns"`
}

// LayoutDay places each overlap group side by side.
func LayoutDay(events []Event) [][]Placement {
	groups := GroupEventsByTimePeriod(events)
	out := make([][]Placement, 0, len(groups))
	for _, g := range groups {
		row := make([]Placement, 0, len(g))
		for i, e := range g {
			row = append(row, Placement{Event: e, Column: i, Columns: len(g)})
		}
		out = append(out, row)
	}
	return out
}

// EventsForDay keeps the events starting on the calendar date of day in loc.
func EventsForDay(events []Event, day time.Time, loc *time.Location) []Event {
	key := DateKey(day, loc)
	var out []Event
	for _, e := range events {
		if DateKey(e.StartDate, loc) == key {
			out = append(out, e)
		}
	}
	return out
}

// EndOfDay is midnight at the end of a day, rendered "24:00".
var EndOfDay = TimeOfDay{Hour: 24}

// VisibleHours widens the working window so every event fits. An event ending
// on a later date than it starts widens the window to EndOfDay.
func VisibleHours(events []Event, start, end TimeOfDay, loc *time.Location) (TimeOfDay, TimeOfDay) {
	for _, e := range events {
		start = MinTime(start, TimeOfDayOf(e.StartDate, loc))
		if DateKey(e.EndDate, loc) != DateKey(e.StartDate, loc) {
			end = EndOfDay
			continue
		}
		end = MaxTime(end, TimeOfDayOf(e.EndDate, loc))
	}
	return start, end
}
