package repository

import (
	"encoding/json"
	"fmt"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// Batch collects fully prepared documents before any of them is written.
// The first encoding error sticks and is returned by Repo.Commit.
type Batch struct {
	entries map[string][]byte
	err     error
}

// PutSlots stages the whole slot collection.
func (b *Batch) PutSlots(slots []model.Slot) *Batch {
	if b.err != nil {
		return b
	}
	raw, err := model.EncodeSlots(slots)
	if err != nil {
		b.err = fmt.Errorf("encode slots: %w", err)
		return b
	}
	b.entries[KeySlots] = raw
	return b
}

// PutBookings stages the whole booking collection.
func (b *Batch) PutBookings(bookings []model.Booking) *Batch {
	if b.err != nil {
		return b
	}
	raw, err := model.EncodeBookings(bookings)
	if err != nil {
		b.err = fmt.Errorf("encode bookings: %w", err)
		return b
	}
	b.entries[KeyBookings] = raw
	return b
}

// PutJSON stages an arbitrary JSON value under key.
func (b *Batch) PutJSON(key string, v any) *Batch {
	if b.err != nil {
		return b
	}
	raw, err := json.Marshal(v)
	if err != nil {
		b.err = fmt.Errorf("encode %s: %w", key, err)
		return b
	}
	b.entries[key] = raw
	return b
}

// Len returns the number of staged keys.
func (b *Batch) Len() int { return len(b.entries) }
