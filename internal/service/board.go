package service

import (
	"context"
	"time"

	"github.com/NextStepSol/workshop-app/internal/engine"
	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/prefs"
	"github.com/NextStepSol/workshop-app/internal/view"
)

// Board is everything the client needs to render the slot list.
type Board struct {
	Projection  view.Projection
	Prefs       prefs.State
	BackupDue   bool
	GeneratedAt time.Time
}

// Board sweeps expired slots and projects the collections through q.  The
// sweep runs first so a slot that ended never shows up as active.
func (m *Manager) Board(ctx context.Context, q view.Query) (Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, _, err := m.sweepLocked(ctx)
	if err != nil {
		return Board{}, err
	}
	bookings, err := m.repo.Bookings(ctx)
	if err != nil {
		return Board{}, err
	}
	st, err := m.prefs.State(ctx)
	if err != nil {
		return Board{}, err
	}
	now := m.now()
	due, err := m.prefs.BackupDue(ctx, now.In(m.format.Location()))
	if err != nil {
		return Board{}, err
	}
	return Board{
		Projection:  view.Project(slots, bookings, q, now, m.format.DateTime),
		Prefs:       st,
		BackupDue:   due,
		GeneratedAt: now,
	}, nil
}

// SlotDetail is one slot with its derived values and bookings.
type SlotDetail struct {
	Slot     model.Slot        `json:"slot"`
	Eval     engine.Evaluation `json:"evaluation"`
	Bookings []model.Booking   `json:"bookings"`
}

// SlotDetail sweeps and returns slot id with its bookings.
func (m *Manager) SlotDetail(ctx context.Context, id string) (SlotDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, _, err := m.sweepLocked(ctx)
	if err != nil {
		return SlotDetail{}, err
	}
	i := indexSlot(slots, id)
	if i < 0 {
		return SlotDetail{}, &model.NotFoundError{Kind: "slot", ID: id}
	}
	bookings, err := m.repo.Bookings(ctx)
	if err != nil {
		return SlotDetail{}, err
	}
	p := view.Project(slots[i:i+1], bookings, view.Query{}, m.now(), nil)
	row := append(p.Active, p.Archived...)[0]
	return SlotDetail{Slot: row.Slot, Eval: row.Evaluation, Bookings: row.Bookings}, nil
}
