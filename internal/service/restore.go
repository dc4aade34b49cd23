package service

import (
	"context"
	"log"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// ReplaceAll swaps both collections for slots and bookings in one write.
// Bookings must reference a slot of the new set; collapse flags of slots
// that no longer exist are dropped in the same write.
func (m *Manager) ReplaceAll(ctx context.Context, slots []model.Slot, bookings []model.Booking) error {
	ids := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		ids[s.ID] = struct{}{}
	}
	for _, b := range bookings {
		if _, ok := ids[b.SlotID]; !ok {
			m.stats.reject("format")
			return model.Malformed("booking %q references unknown slot %q", b.ID, b.SlotID)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	batch := m.repo.NewBatch().PutSlots(slots).PutBookings(bookings)
	keep := func(id string) bool {
		_, ok := ids[id]
		return ok
	}
	if err := m.prefs.PruneInto(ctx, batch, keep); err != nil {
		return err
	}
	if err := m.repo.Commit(ctx, batch); err != nil {
		return err
	}
	m.stats.op("restore")
	log.Printf("restore: replaced collections with %d slots and %d bookings", len(slots), len(bookings))
	return nil
}
