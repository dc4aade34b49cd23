// Package backup moves the whole data set in and out of the service as a
// single JSON document, and flattens bookings into CSV for spreadsheets.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/prefs"
	"github.com/NextStepSol/workshop-app/internal/repository"
)

// Source is the part of service.Manager the backup needs.
type Source interface {
	Snapshot(ctx context.Context) (repository.Snapshot, error)
	ReplaceAll(ctx context.Context, slots []model.Slot, bookings []model.Booking) error
	Prefs() *prefs.Prefs
	Now() time.Time
}

// Document is the exported backup.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Slots      []model.Slot    `json:"slots"`
	Bookings   []model.Booking `json:"bookings"`
}

// Export reads both collections as they are stored, without sweeping, and
// records today as the last backup day.
func Export(ctx context.Context, src Source) (Document, error) {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return Document{}, err
	}
	now := src.Now()
	if err := src.Prefs().MarkBackup(ctx, now); err != nil {
		return Document{}, err
	}
	doc := Document{
		Version:    model.SchemaVersion,
		ExportedAt: now,
		Slots:      snap.Slots,
		Bookings:   snap.Bookings,
	}
	if doc.Slots == nil {
		doc.Slots = []model.Slot{}
	}
	if doc.Bookings == nil {
		doc.Bookings = []model.Booking{}
	}
	return doc, nil
}

// Parse validates a backup document.  Both "slots" and "bookings" must be
// present JSON arrays; every record passes the same checks as a stored
// collection.
func Parse(data []byte) ([]model.Slot, []model.Booking, error) {
	var doc struct {
		Version  *int            `json:"version"`
		Slots    json.RawMessage `json:"slots"`
		Bookings json.RawMessage `json:"bookings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, model.Malformed("backup is not a JSON object: %v", err)
	}
	if doc.Version != nil && *doc.Version > model.SchemaVersion {
		return nil, nil, model.Malformed("unsupported backup version %d", *doc.Version)
	}
	if !isArray(doc.Slots) {
		return nil, nil, model.Malformed("backup field %q must be an array", "slots")
	}
	if !isArray(doc.Bookings) {
		return nil, nil, model.Malformed("backup field %q must be an array", "bookings")
	}
	slots, err := model.SlotsFromJSON(doc.Slots)
	if err != nil {
		return nil, nil, err
	}
	bookings, err := model.BookingsFromJSON(doc.Bookings)
	if err != nil {
		return nil, nil, err
	}
	return slots, bookings, nil
}

// Restore validates data and replaces both collections with its content.
// Nothing is written when any check fails.
func Restore(ctx context.Context, dst Source, data []byte) (slots, bookings int, err error) {
	s, b, err := Parse(data)
	if err != nil {
		return 0, 0, err
	}
	if err := dst.ReplaceAll(ctx, s, b); err != nil {
		return 0, 0, err
	}
	return len(s), len(b), nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
