package app

import "github.com/gin-gonic/gin"

// Router wires every route behind the shared middleware.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(Recovery(a.Logger), RequestLogger(a.Logger))

	router.GET("/livez", a.LiveHandler)
	router.GET("/readyz", a.ReadyHandler)

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", a.GoogleOAuth2CallbackHandler)

	api := router.Group("/api")
	api.Use(
		RateLimit(a.Cfg.RateLimitPerMin, a.Logger),
		AuthMiddleware(a.Cfg.JWTSecret, a.Cfg.StaticTokens),
		ForwardSession(),
	)
	{
		api.GET("/options", a.GetOptionsHandler)
		api.GET("/slots/options", a.GetSlotOptionsHandler)
		api.GET("/dates/booked", a.GetBookedDatesHandler)
		api.GET("/events", a.ListEventsHandler)
		api.GET("/events/groups", a.GetDayGroupsHandler)
		api.POST("/availability/preview", a.PreviewAvailabilityHandler)
		api.GET("/cost", a.GetCostHandler)

		calendar := api.Group("/calendar")
		{
			calendar.GET("/auth", a.GoogleAuthHandler)
			calendar.GET("/events", a.GetGoogleCalendarEvents)
			calendar.GET("/calendars", a.GetGoogleCalendarList)
		}
	}
	return router
}
