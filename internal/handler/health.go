package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe.  It also reads the slot key so a broken
// store shows up as 503.
func (h *Handler) Health(c echo.Context) error {
	if _, err := h.Mgr.Snapshot(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": err.Error()})
	}
	return c.String(http.StatusOK, "ok")
}
