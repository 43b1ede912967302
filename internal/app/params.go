package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mirai-scheduler/internal/slots"
)

func queryInt32(c *gin.Context, key string) (*int32, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	v := int32(n)
	return &v, nil
}

// queryPositiveInt returns 0 when key is absent and rejects values above max.
func queryPositiveInt(c *gin.Context, key string, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	if n > max {
		return 0, fmt.Errorf("%s must be at most %d", key, max)
	}
	return n, nil
}

// queryDuration reads the duration parameter in slot units, capped at one day.
func (a *App) queryDuration(c *gin.Context) (int, error) {
	return queryPositiveInt(c, "duration", slots.UnitsPerDay(a.Cfg.WorkingDay.UnitMinutes))
}

// queryTime returns the HH:MM value of key, or def when absent.
func queryTime(c *gin.Context, key string, def slots.TimeOfDay) (slots.TimeOfDay, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, false, nil
	}
	t, err := slots.ParseTimeOfDay(raw)
	if err != nil {
		return slots.TimeOfDay{}, false, fmt.Errorf("invalid %s", key)
	}
	return t, true, nil
}

func (a *App) queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := slots.ParseDate(raw, a.Cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid %s (want YYYY-MM-DD)", key)
	}
	return &d, nil
}
