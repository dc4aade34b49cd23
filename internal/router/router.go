// Package router registers the HTTP routes on an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/handler"
)

// RegisterRoutes registers the probes: /healthz and, when metrics is
// non-nil, /metrics.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, metrics http.Handler) {
	e.GET("/healthz", h.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAPI registers the /v1 API.  mw applies to the whole group, e.g.
// the rate limiter.
func RegisterAPI(e *echo.Echo, h *handler.Handler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...) // Versioned API group

	g.GET("/board", h.Board) // Active and archived sections

	// Slots
	g.GET("/slots/draft", h.SlotDraft) // Prefilled form for a new slot
	g.POST("/slots", h.CreateSlot)
	g.POST("/slots/series", h.CreateSlotSeries)
	g.GET("/slots/:id", h.GetSlot)
	g.PATCH("/slots/:id", h.EditSlot)
	g.DELETE("/slots/:id", h.DeleteSlot)
	g.PUT("/slots/:id/archive", h.SetArchived)
	g.GET("/slots/:id/ics", h.SlotICS)
	g.POST("/slots/:id/bookings", h.CreateBooking)

	// Bookings
	g.GET("/bookings/:id", h.GetBooking)
	g.PUT("/bookings/:id", h.ReplaceBooking) // full form
	g.PATCH("/bookings/:id", h.EditBooking)  // partial
	g.DELETE("/bookings/:id", h.DeleteBooking)
	g.GET("/bookings/:id/message", h.BookingMessage)

	// Preferences
	g.PUT("/prefs/sections/:section", h.SetSectionCollapsed)
	g.PUT("/prefs/slots/:id", h.SetSlotCollapsed)
	g.GET("/prefs/template", h.GetTemplate)
	g.PUT("/prefs/template", h.SetTemplate)

	// Backup and export
	g.GET("/backup", h.Backup)
	g.POST("/restore", h.Restore)
	g.GET("/export.csv", h.ExportCSV)
}
