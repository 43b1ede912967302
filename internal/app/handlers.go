package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mirai-scheduler/internal/slots"
	"mirai-scheduler/internal/source"
)

const timeLayout = time.RFC3339

func filterEmployee(events []slots.Event, employeeID *int32) []slots.Event {
	if employeeID == nil {
		return events
	}
	out := make([]slots.Event, 0, len(events))
	for _, e := range events {
		if e.EmployeeID == *employeeID {
			out = append(out, e)
		}
	}
	return out
}

// calendarEvents merges free availability and bookings into display events.
func (a *App) calendarEvents(snap *source.Snapshot, employeeID *int32) ([]slots.Event, error) {
	events, err := slots.AvailabilitySlotsToEvents(snap.Availability, a.Cfg.WorkingDay.UnitMinutes)
	if err != nil {
		return nil, err
	}
	events = append(events, slots.BookingsToEvents(snap.Bookings)...)
	return filterEmployee(events, employeeID), nil
}

// GET /api/events?employee_id=
func (a *App) ListEventsHandler(c *gin.Context) {
	employeeID, err := queryInt32(c, "employee_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := a.snapshot(c)
	if !ok {
		return
	}
	events, err := a.calendarEvents(snap, employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

type dayLayout struct {
	Date   string              `json:"date"`
	Start  string              `json:"start"`
	End    string              `json:"end"`
	Groups [][]slots.Placement `json:"groups"`
}

func (a *App) layoutDay(day time.Time, events []slots.Event) dayLayout {
	loc := a.Cfg.Location
	dayEvents := slots.EventsForDay(events, day, loc)
	start, end := slots.VisibleHours(dayEvents, a.Cfg.WorkingDay.Start, a.Cfg.WorkingDay.End, loc)
	groups := slots.LayoutDay(dayEvents)
	if groups == nil {
		groups = [][]slots.Placement{}
	}
	return dayLayout{
		Date:   slots.DateKey(day, loc),
		Start:  start.String(),
		End:    end.String(),
		Groups: groups,
	}
}

// GET /api/events/groups?date=YYYY-MM-DD&employee_id=
func (a *App) GetDayGroupsHandler(c *gin.Context) {
	date, err := a.queryDate(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	employeeID, err := queryInt32(c, "employee_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := a.snapshot(c)
	if !ok {
		return
	}
	events, err := a.calendarEvents(snap, employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.layoutDay(*date, events))
}
