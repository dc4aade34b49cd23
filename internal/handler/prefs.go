package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/model"
)

type collapseBody struct {
	Collapsed *bool `json:"collapsed"` // nil when the field is missing
}

func (b collapseBody) value() (bool, error) {
	if b.Collapsed == nil {
		return false, model.Invalid("collapsed", "is required")
	}
	return *b.Collapsed, nil
}

// SetSectionCollapsed handles PUT /v1/prefs/sections/:section.
func (h *Handler) SetSectionCollapsed(c echo.Context) error {
	sec, err := model.ParseSection(c.Param("section"))
	if err != nil {
		return fail(c, err)
	}
	var body collapseBody
	if err := bind(c, &body); err != nil {
		return fail(c, err)
	}
	v, err := body.value()
	if err != nil {
		return fail(c, err)
	}
	if err := h.Mgr.SetSectionCollapsed(c.Request().Context(), sec, v); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"section": sec, "collapsed": v})
}

// SetSlotCollapsed handles PUT /v1/prefs/slots/:id.
func (h *Handler) SetSlotCollapsed(c echo.Context) error {
	ctx := c.Request().Context()
	var body collapseBody
	if err := bind(c, &body); err != nil {
		return fail(c, err)
	}
	v, err := body.value()
	if err != nil {
		return fail(c, err)
	}
	if err := h.Mgr.SetSlotCollapsed(ctx, c.Param("id"), v); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slot_id": c.Param("id"), "collapsed": v})
}

// GetTemplate handles GET /v1/prefs/template.
func (h *Handler) GetTemplate(c echo.Context) error {
	tpl, err := h.Mgr.Prefs().Template(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"template": tpl})
}

// SetTemplate handles PUT /v1/prefs/template.  An empty template restores
// the default.
func (h *Handler) SetTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	var body struct {
		Template string `json:"template"`
	}
	if err := bind(c, &body); err != nil {
		return fail(c, err)
	}
	if err := h.Mgr.SetTemplate(ctx, body.Template); err != nil {
		return fail(c, err)
	}
	return h.GetTemplate(c)
}
