package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/engine"
	"github.com/NextStepSol/workshop-app/internal/view"
)

type boardRow struct {
	view.Row
	Starts    string `json:"starts_display"`
	Collapsed bool   `json:"collapsed"`
}

type boardSection struct {
	Collapsed bool       `json:"collapsed"`
	Rows      []boardRow `json:"rows"`
}

type boardResponse struct {
	Active      boardSection `json:"active"`
	Archived    boardSection `json:"archived"`
	Total       int          `json:"total"`
	BackupDue   bool         `json:"backup_due"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Board handles GET /v1/board?q=&status=.
func (h *Handler) Board(c echo.Context) error {
	f, err := engine.ParseFilter(c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Mgr.Board(c.Request().Context(), view.Query{Text: c.QueryParam("q"), Status: f})
	if err != nil {
		return fail(c, err)
	}
	fmtr := h.Mgr.Formatter()
	rows := func(in []view.Row) []boardRow {
		out := make([]boardRow, 0, len(in))
		for _, r := range in {
			out = append(out, boardRow{Row: r, Starts: fmtr.DateTime(r.Slot.StartsAt), Collapsed: b.Prefs.SlotCollapsed(r.Slot.ID)})
		}
		return out
	}
	return c.JSON(http.StatusOK, boardResponse{
		Active:      boardSection{Collapsed: b.Prefs.ActiveCollapsed, Rows: rows(b.Projection.Active)},
		Archived:    boardSection{Collapsed: b.Prefs.ArchiveCollapsed, Rows: rows(b.Projection.Archived)},
		Total:       b.Projection.Len(),
		BackupDue:   b.BackupDue,
		GeneratedAt: b.GeneratedAt,
	})
}
