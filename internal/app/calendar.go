package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"mirai-scheduler/internal/config"
	"mirai-scheduler/internal/slots"
)

// GoogleCalendarConfig holds OAuth2 configuration for the calendar overlay.
type GoogleCalendarConfig struct {
	Config *oauth2.Config
}

// NewGoogleCalendarConfig returns nil unless all OAuth2 values are configured.
func NewGoogleCalendarConfig(cfg *config.Config) *GoogleCalendarConfig {
	if cfg == nil || !cfg.GoogleEnabled() {
		return nil
	}
	return &GoogleCalendarConfig{Config: &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{calendar.CalendarReadonlyScope},
		Endpoint:     google.Endpoint,
	}}
}

// GET /api/calendar/auth
func (a *App) GoogleAuthHandler(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Google Calendar not configured"})
		return
	}
	state := fmt.Sprintf("employee_%s_%d", c.Query("employee_id"), a.Now().Unix())
	c.JSON(http.StatusOK, gin.H{
		"auth_url": a.Calendar.Config.AuthCodeURL(state, oauth2.AccessTypeOffline),
		"state":    state,
	})
}

// GET /oauth2callback
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Google Calendar not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	token, err := a.Calendar.Config.Exchange(c.Request.Context(), code)
	if err != nil {
		a.Logger.Warn("oauth2 exchange failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	// the client keeps the token and sends it back in X-Google-Token
	tokenJSON, _ := json.Marshal(token)
	c.JSON(http.StatusOK, gin.H{"state": c.Query("state"), "token": string(tokenJSON)})
}

func (a *App) calendarService(ctx context.Context, tokenHeader string) (*calendar.Service, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(tokenHeader), &token); err != nil {
		return nil, fmt.Errorf("invalid token format")
	}
	client := a.Calendar.Config.Client(ctx, &token)
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t, err == nil
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", dt.Date, loc)
		return t, err == nil
	}
	return time.Time{}, false
}

// fromGoogleEvent converts a calendar item into an overlay event for employeeID.
// Cancelled items and items without a usable range are dropped.
func fromGoogleEvent(item *calendar.Event, employeeID int32, loc *time.Location) (slots.Event, bool) {
	if item == nil || item.Status == "cancelled" {
		return slots.Event{}, false
	}
	start, ok := parseEventTime(item.Start, loc)
	if !ok {
		return slots.Event{}, false
	}
	end, ok := parseEventTime(item.End, loc)
	if !ok || !start.Before(end) {
		return slots.Event{}, false
	}
	return slots.Event{
		ID:         item.Id,
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Source:     slots.SourceGoogle,
		Title:      item.Summary,
	}, true
}

// GET /api/calendar/events?employee_id=&date=YYYY-MM-DD&calendar_id=
// Reads the employee's Google Calendar for the day and lays it out together
// with their Mirai availability and bookings.
func (a *App) GetGoogleCalendarEvents(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Google Calendar not configured"})
		return
	}
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return
	}
	employeeID, err := queryInt32(c, "employee_id")
	if err != nil || employeeID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id required"})
		return
	}
	date, err := a.queryDate(c, "date")
	if err != nil || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}

	ctx := c.Request.Context()
	srv, err := a.calendarService(ctx, tokenStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := srv.Events.List(c.DefaultQuery("calendar_id", "primary")).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(date.Format(time.RFC3339)).
		TimeMax(date.AddDate(0, 0, 1).Format(time.RFC3339)).
		MaxResults(250).
		Context(ctx).
		Do()
	if err != nil {
		a.Logger.Warn("google calendar list failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to retrieve events"})
		return
	}

	var overlay []slots.Event
	for _, item := range items.Items {
		if e, ok := fromGoogleEvent(item, *employeeID, a.Cfg.Location); ok {
			overlay = append(overlay, e)
		}
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
	c.JSON(http.StatusOK, a.layoutDay(*date, append(events, overlay...)))
}

type calendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"access_role"`
}

// GET /api/calendar/calendars
func (a *App) GetGoogleCalendarList(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Google Calendar not configured"})
		return
	}
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google token required in X-Google-Token header"})
		return
	}
	ctx := c.Request.Context()
	srv, err := a.calendarService(ctx, tokenStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		a.Logger.Warn("google calendar list failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to retrieve calendars"})
		return
	}
	calendars := make([]calendarInfo, 0, len(list.Items))
	for _, item := range list.Items {
		calendars = append(calendars, calendarInfo{
			ID:         item.Id,
			Summary:    item.Summary,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}
	c.JSON(http.StatusOK, gin.H{"calendars": calendars, "count": len(calendars)})
}
