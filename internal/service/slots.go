package service

import (
	"context"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// SlotInput carries the fields of a new slot.
type SlotInput struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity int       `json:"capacity"`
}

func validateSlot(s model.Slot) error {
	if strings.TrimSpace(s.Title) == "" {
		return model.Invalid("title", "is required")
	}
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() {
		return model.Invalid("starts_at", "and ends_at are required")
	}
	if !s.EndsAt.After(s.StartsAt) {
		return model.Invalid("ends_at", "must be after starts_at")
	}
	if s.Capacity < 0 {
		return model.Invalid("capacity", "must not be negative")
	}
	return nil
}

// NewSlotDraft returns the prefilled values of an empty slot form: today
// 17:00 to 19:00 with ten seats.
func (m *Manager) NewSlotDraft() SlotInput {
	now := m.now().In(m.format.Location())
	start := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, now.Location())
	return SlotInput{StartsAt: start, EndsAt: start.Add(2 * time.Hour), Capacity: 10}
}

// CreateSlot adds a new, non-archived slot.
func (m *Manager) CreateSlot(ctx context.Context, in SlotInput) (model.Slot, error) {
	s := model.Slot{
		ID:       m.newID(),
		Title:    strings.TrimSpace(in.Title),
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
		Capacity: in.Capacity,
	}
	if err := validateSlot(s); err != nil {
		m.stats.reject("validation")
		return model.Slot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return model.Slot{}, err
	}
	slots = append(slots, s)
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutSlots(slots)); err != nil {
		return model.Slot{}, err
	}
	m.stats.op("create_slot")
	return s, nil
}

// EditSlot overwrites the given fields of slot id.  The merged slot must
// still be valid.  Bookings are not re-checked: lowering the capacity
// below the booked total leaves the slot over-subscribed.
func (m *Manager) EditSlot(ctx context.Context, id string, patch model.SlotPatch) (model.Slot, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return model.Slot{}, err
	}
	i := indexSlot(slots, id)
	if i < 0 {
		return model.Slot{}, &model.NotFoundError{Kind: "slot", ID: id}
	}
	updated := patch.Apply(slots[i])
	if err := validateSlot(updated); err != nil {
		m.stats.reject("validation")
		return model.Slot{}, err
	}
	slots[i] = updated
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutSlots(slots)); err != nil {
		return model.Slot{}, err
	}
	m.stats.op("edit_slot")
	return updated, nil
}

// ToggleArchive sets the archived flag of slot id.  Reactivating a slot
// that already ended is governed by the manager's ReactivationPolicy.
func (m *Manager) ToggleArchive(ctx context.Context, id string, archived bool) (model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return model.Slot{}, err
	}
	i := indexSlot(slots, id)
	if i < 0 {
		return model.Slot{}, &model.NotFoundError{Kind: "slot", ID: id}
	}
	if !archived && m.policy == RequireFutureEnd && slots[i].Ended(m.now()) {
		m.stats.reject("validation")
		return model.Slot{}, model.Invalid("archived", "cannot reactivate a slot that has ended; move ends_at forward first")
	}
	if slots[i].Archived == archived {
		return slots[i], nil
	}
	slots[i].Archived = archived
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutSlots(slots)); err != nil {
		return model.Slot{}, err
	}
	m.stats.op("toggle_archive")
	return slots[i], nil
}

// DeleteSlot removes slot id together with all of its bookings and its
// collapse flag.  All three documents are prepared first and committed in
// one write, so a failure leaves the store as it was.
func (m *Manager) DeleteSlot(ctx context.Context, id string) (removedBookings int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	i := indexSlot(snap.Slots, id)
	if i < 0 {
		return 0, &model.NotFoundError{Kind: "slot", ID: id}
	}
	slots := slices.Delete(snap.Slots, i, i+1)
	bookings := slices.DeleteFunc(snap.Bookings, func(b model.Booking) bool {
		if b.SlotID == id {
			removedBookings++
			return true
		}
		return false
	})

	batch := m.repo.NewBatch().PutSlots(slots).PutBookings(bookings)
	if err := m.prefs.PruneInto(ctx, batch, func(v string) bool { return v != id }); err != nil {
		return 0, err
	}
	if err := m.repo.Commit(ctx, batch); err != nil {
		return 0, err
	}
	m.stats.op("delete_slot")
	log.Printf("slot %s deleted with %d booking(s)", id, removedBookings)
	return removedBookings, nil
}

// SweepExpired archives every non-archived slot whose end lies in the
// past and returns how many were archived.  Running it twice in a row
// changes nothing the second time.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, n, err := m.sweepLocked(ctx)
	return n, err
}

// sweepLocked is SweepExpired for callers that already hold m.mu.  It
// returns the slot collection as persisted afterwards.
func (m *Manager) sweepLocked(ctx context.Context) ([]model.Slot, int, error) {
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return nil, 0, err
	}
	now := m.now()
	n := 0
	for i := range slots {
		if !slots[i].Archived && slots[i].Ended(now) {
			slots[i].Archived = true
			n++
		}
	}
	if n == 0 {
		return slots, 0, nil
	}
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutSlots(slots)); err != nil {
		return nil, 0, err
	}
	m.stats.swept(n)
	return slots, n, nil
}

// Slot returns slot id.
func (m *Manager) Slot(ctx context.Context, id string) (model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return model.Slot{}, err
	}
	i := indexSlot(slots, id)
	if i < 0 {
		return model.Slot{}, &model.NotFoundError{Kind: "slot", ID: id}
	}
	return slots[i], nil
}

func indexSlot(slots []model.Slot, id string) int {
	return slices.IndexFunc(slots, func(s model.Slot) bool { return s.ID == id })
}
