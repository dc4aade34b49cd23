// Package handler exposes the lifecycle manager over a JSON HTTP API.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/service"
)

// Handler serves every /v1 endpoint from one Manager.
type Handler struct {
	Mgr *service.Manager // Owns every read and write
}

// New returns a Handler and panics when mgr is nil.
func New(mgr *service.Manager) *Handler {
	if mgr == nil {
		panic("nil manager passed to handler.New")
	}
	return &Handler{Mgr: mgr}
}

// fail writes the JSON error response for err.
func fail(c echo.Context, err error) error {
	var (
		verr *model.ValidationError
		nerr *model.NotFoundError
		cerr *model.CapacityError
		ferr *model.FormatError
	)
	switch {
	case errors.As(err, &cerr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "capacity_exceeded",
			"message":   cerr.Error(),
			"requested": cerr.Requested,
			"remaining": cerr.Remaining,
		})
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid", "field": verr.Field, "message": verr.Error()})
	case errors.As(err, &nerr):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": nerr.Error()})
	case errors.As(err, &ferr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid_format", "message": ferr.Error()})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// bind decodes the request body, reporting a malformed body as a
// validation error on "body".
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return model.Invalid("body", "is not valid JSON")
	}
	return nil
}
