package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mirai-scheduler/internal/slots"
	"mirai-scheduler/internal/source"
)

// snapshot loads the current data and writes the error response itself when
// nothing is available.
func (a *App) snapshot(c *gin.Context) (*source.Snapshot, bool) {
	snap, stale, err := a.Source.Snapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, source.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session rejected by backend"})
			return nil, false
		}
		a.Logger.Error("loading snapshot", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, source.ErrNoSnapshot) || errors.Is(err, source.ErrRejected) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "availability is currently unavailable"})
		return nil, false
	}
	if stale {
		c.Header("X-Data-Stale", "true")
	}
	return snap, true
}

// requiredUnits picks the explicit duration, else the booking type's, else zero.
func requiredUnits(snap *source.Snapshot, typeID *int32, duration int) int {
	if duration > 0 {
		return duration
	}
	if typeID != nil {
		if bt, ok := snap.BookingType(*typeID); ok {
			return bt.Units()
		}
	}
	return 0
}

// GET /api/options?start=HH:MM&end=HH:MM
func (a *App) GetOptionsHandler(c *gin.Context) {
	wd := a.Cfg.WorkingDay
	start, _, err := queryTime(c, "start", wd.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, _, err := queryTime(c, "end", wd.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := slots.GenerateOptions(start, end, wd.UnitMinutes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o.String())
	}
	c.JSON(http.StatusOK, gin.H{"options": values})
}

// GET /api/slots/options?date=YYYY-MM-DD&start=&end=&employee_id=&type_id=&duration=
func (a *App) GetSlotOptionsHandler(c *gin.Context) {
	wd := a.Cfg.WorkingDay
	date, err := a.queryDate(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, _, err := queryTime(c, "start", wd.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, _, err := queryTime(c, "end", wd.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	employeeID, err := queryInt32(c, "employee_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	typeID, err := queryInt32(c, "type_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	duration, err := a.queryDuration(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, ok := a.snapshot(c)
	if !ok {
		return
	}

	candidates, err := slots.QualifyingSlots(snap.Availability, slots.Criteria{EmployeeID: employeeID, TypeID: typeID}, wd.UnitMinutes, a.Cfg.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	opts, err := slots.OptionsFromSlots(start, end, candidates, date, wd.UnitMinutes, a.Cfg.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	opts = slots.FilterMinDuration(opts, requiredUnits(snap, typeID, duration))

	c.JSON(http.StatusOK, gin.H{"options": opts, "count": len(opts)})
}

// GET /api/dates/booked?employee_id=&type_id=&duration=&start=&end=
// Lists the dates of the coming year that have nothing bookable.
func (a *App) GetBookedDatesHandler(c *gin.Context) {
	crit := slots.Criteria{}
	var err error
	if crit.EmployeeID, err = queryInt32(c, "employee_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if crit.TypeID, err = queryInt32(c, "type_id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	duration, err := a.queryDuration(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if start, set, err := queryTime(c, "start", slots.TimeOfDay{}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if set {
		crit.WindowStart = &start
	}
	if end, set, err := queryTime(c, "end", slots.TimeOfDay{}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if set {
		crit.WindowEnd = &end
	}

	snap, ok := a.snapshot(c)
	if !ok {
		return
	}
	crit.MinUnits = requiredUnits(snap, crit.TypeID, duration)

	qualifying, err := slots.QualifyingSlots(snap.Availability, crit, a.Cfg.WorkingDay.UnitMinutes, a.Cfg.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	booked := slots.BookedDates(qualifying, a.Now(), a.Cfg.Location)

	dates := make([]string, 0, len(booked))
	for _, d := range booked {
		dates = append(dates, slots.DateKey(d, a.Cfg.Location))
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates, "count": len(dates)})
}

type previewReq struct {
	EmployeeID int32  `json:"employee_id"`
	TypeID     int32  `json:"type_id"`
	StartTime  string `json:"start_time" binding:"required"` // RFC3339
	EndTime    string `json:"end_time" binding:"required"`
}

// POST /api/availability/preview
// Shows the atomic slots a publish request would create.
func (a *App) PreviewAvailabilityHandler(c *gin.Context) {
	var req previewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, ok := slots.ParseTimestamp(req.StartTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
		return
	}
	end, ok := slots.ParseTimestamp(req.EndTime)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
		return
	}

	unit := a.Cfg.WorkingDay.UnitMinutes
	times, err := slots.SpanToSlots(start, end, unit, a.Cfg.MaxPreviewSpan())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview := make([]slots.AvailabilitySlot, 0, len(times))
	for _, t := range times {
		preview = append(preview, slots.AvailabilitySlot{
			EmployeeID: req.EmployeeID,
			TypeID:     req.TypeID,
			Datetime:   t.UTC().Format(timeLayout),
		})
	}
	events, err := slots.AvailabilitySlotsToEvents(preview, unit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": preview, "events": events})
}

// GET /api/cost?type_id=&duration=
func (a *App) GetCostHandler(c *gin.Context) {
	typeID, err := queryInt32(c, "type_id")
	if err != nil || typeID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type_id required"})
		return
	}
	duration, err := a.queryDuration(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, ok := a.snapshot(c)
	if !ok {
		return
	}
	bt, found := snap.BookingType(*typeID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking type not found"})
		return
	}
	if duration == 0 {
		duration = bt.Units()
	}
	c.JSON(http.StatusOK, gin.H{
		"type_id":  bt.ID,
		"duration": duration,
		"fixed":    bt.Fixed,
		"cost":     slots.Cost(bt, duration),
	})
}
