package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/service"
)

type bookingResponse struct {
	Booking model.Booking       `json:"booking"` // saved booking
	Session service.EditSession `json:"session"` // echo back on the next submit
}

// CreateBooking handles POST /v1/slots/:id/bookings.  The response carries
// the edit session for follow-up edits of the new booking.
func (h *Handler) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	var form service.BookingForm
	if err := bind(c, &form); err != nil {
		return fail(c, err)
	}
	sess, err := h.Mgr.OpenBookingSession(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	b, sess, err := h.Mgr.SubmitBooking(ctx, sess, form)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, bookingResponse{Booking: b, Session: sess})
}

// GetBooking handles GET /v1/bookings/:id and returns the booking with its
// edit session.
func (h *Handler) GetBooking(c echo.Context) error {
	sess, b, err := h.Mgr.EditBookingSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookingResponse{Booking: b, Session: sess})
}

// ReplaceBooking handles PUT /v1/bookings/:id.  The body is the whole
// booking form; every field overwrites the stored booking.
func (h *Handler) ReplaceBooking(c echo.Context) error {
	ctx := c.Request().Context()
	var form service.BookingForm // full form, missing fields become empty
	if err := bind(c, &form); err != nil {
		return fail(c, err)
	}
	sess, _, err := h.Mgr.EditBookingSession(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	b, sess, err := h.Mgr.SubmitBooking(ctx, sess, form)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookingResponse{Booking: b, Session: sess})
}

// EditBooking handles PATCH /v1/bookings/:id.  Only the fields present in
// the body change.
func (h *Handler) EditBooking(c echo.Context) error {
	ctx := c.Request().Context()
	var patch model.BookingPatch // absent fields stay nil and untouched
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	b, err := h.Mgr.EditBooking(ctx, c.Param("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	sess := service.EditSession{SlotID: b.SlotID, BookingID: b.ID}
	return c.JSON(http.StatusOK, bookingResponse{Booking: b, Session: sess})
}

// DeleteBooking handles DELETE /v1/bookings/:id.
func (h *Handler) DeleteBooking(c echo.Context) error {
	ctx := c.Request().Context()
	sess, _, err := h.Mgr.EditBookingSession(ctx, c.Param("id")) // 404 for unknown ids
	if err != nil {
		return fail(c, err)
	}
	if err := h.Mgr.DeleteSessionBooking(ctx, sess); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BookingMessage handles GET /v1/bookings/:id/message.
func (h *Handler) BookingMessage(c echo.Context) error {
	conf, err := h.Mgr.Confirmation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, conf)
}
