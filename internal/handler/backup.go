package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NextStepSol/workshop-app/internal/backup"
	"github.com/NextStepSol/workshop-app/internal/model"
)

// maxRestoreBytes bounds the restore upload.
const maxRestoreBytes = 16 << 20

// Backup handles GET /v1/backup.
func (h *Handler) Backup(c echo.Context) error {
	doc, err := backup.Export(c.Request().Context(), h.Mgr)
	if err != nil {
		return fail(c, err)
	}
	name := "workshop-backup-" + doc.ExportedAt.In(h.Mgr.Formatter().Location()).Format("2006-01-02") + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.JSON(http.StatusOK, doc)
}

// Restore handles POST /v1/restore with a backup document as body.
func (h *Handler) Restore(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRestoreBytes+1))
	if err != nil {
		return fail(c, err)
	}
	if len(data) > maxRestoreBytes {
		return fail(c, model.Malformed("backup larger than %d bytes", maxRestoreBytes))
	}
	slots, bookings, err := backup.Restore(c.Request().Context(), h.Mgr, data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots, "bookings": bookings})
}

// ExportCSV handles GET /v1/export.csv.
func (h *Handler) ExportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := backup.WriteCSV(c.Request().Context(), &buf, h.Mgr, h.Mgr.Formatter()); err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
