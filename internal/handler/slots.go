package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/calendar"
	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/service"
)

// SlotDraft handles GET /v1/slots/draft.
func (h *Handler) SlotDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Mgr.NewSlotDraft())
}

// CreateSlot handles POST /v1/slots.
func (h *Handler) CreateSlot(c echo.Context) error {
	var in service.SlotInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	s, err := h.Mgr.CreateSlot(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

type seriesRequest struct {
	Title           string    `json:"title"`            // Shared by every slot
	FirstStart      time.Time `json:"first_start"`      // DTSTART of the rule
	DurationMinutes int       `json:"duration_minutes"` // Length of each slot
	Capacity        int       `json:"capacity"`         // Seats per slot
	RRule           string    `json:"rrule"`            // e.g. FREQ=WEEKLY;COUNT=6
}

// CreateSlotSeries handles POST /v1/slots/series.
func (h *Handler) CreateSlotSeries(c echo.Context) error {
	var req seriesRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	slots, err := h.Mgr.CreateSlotSeries(c.Request().Context(), service.SeriesInput{
		Title:      req.Title,
		FirstStart: req.FirstStart,
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
		Capacity:   req.Capacity,
		RRule:      req.RRule,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"slots": slots, "count": len(slots)})
}

// GetSlot handles GET /v1/slots/:id.
func (h *Handler) GetSlot(c echo.Context) error {
	d, err := h.Mgr.SlotDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// EditSlot handles PATCH /v1/slots/:id.
func (h *Handler) EditSlot(c echo.Context) error {
	var p model.SlotPatch
	if err := bind(c, &p); err != nil {
		return fail(c, err)
	}
	s, err := h.Mgr.EditSlot(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// SetArchived handles PUT /v1/slots/:id/archive with {"archived": bool}.
func (h *Handler) SetArchived(c echo.Context) error {
	var body struct {
		Archived *bool `json:"archived"`
	}
	if err := bind(c, &body); err != nil {
		return fail(c, err)
	}
	if body.Archived == nil {
		return fail(c, model.Invalid("archived", "is required"))
	}
	s, err := h.Mgr.ToggleArchive(c.Request().Context(), c.Param("id"), *body.Archived)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSlot handles DELETE /v1/slots/:id.
func (h *Handler) DeleteSlot(c echo.Context) error {
	n, err := h.Mgr.DeleteSlot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": c.Param("id"), "removed_bookings": n})
}

// SlotICS handles GET /v1/slots/:id/ics.
func (h *Handler) SlotICS(c echo.Context) error {
	s, err := h.Mgr.Slot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+calendar.Filename(s)+`"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.SlotICS(s, h.Mgr.Now())))
}
