// Package repository maps the slot and booking collections and the
// operator preferences onto keys of a store.Store.  Collections are
// decoded and validated on every read (see model.DecodeSlots) and written
// back as versioned envelopes.  Writes that touch more than one key go
// through a Batch so they land atomically.
package repository

import (
	"context"
	"fmt"

	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/store"
)

// Store keys.  The names match the browser storage keys of the first
// version so exported localStorage dumps can be imported unchanged.
const (
	KeySlots           = "seeyou_slots_v1"
	KeyBookings        = "seeyou_bookings_v1"
	KeyActiveCollapsed = "seeyou_active_collapsed_v1"
	KeyArchCollapsed   = "seeyou_arch_collapsed_v1"
	KeyCollapsedSlots  = "seeyou_collapsed_slots_v1"
	KeyMessageTemplate = "seeyou_whatsapp_template_v1"
	KeyLastBackup      = "seeyou_last_backup_v1"
)

// Repo reads and writes the persisted collections.
type Repo struct {
	s store.Store
}

// New wraps s.
func New(s store.Store) *Repo {
	return &Repo{s: s}
}

// Store exposes the underlying key-value store.
func (r *Repo) Store() store.Store { return r.s }

// Snapshot is a consistent read of both collections.
type Snapshot struct {
	Slots    []model.Slot
	Bookings []model.Booking
}

// HasSlots reports whether the slot collection was ever written.
func (r *Repo) HasSlots(ctx context.Context) (bool, error) {
	_, ok, err := r.s.Get(ctx, KeySlots)
	return ok, err
}

// Slots loads the slot collection; an absent key yields an empty slice.
func (r *Repo) Slots(ctx context.Context) ([]model.Slot, error) {
	raw, ok, err := r.s.Get(ctx, KeySlots)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	if !ok {
		return []model.Slot{}, nil
	}
	return model.DecodeSlots(raw)
}

// Bookings loads the booking collection; an absent key yields an empty
// slice.
func (r *Repo) Bookings(ctx context.Context) ([]model.Booking, error) {
	raw, ok, err := r.s.Get(ctx, KeyBookings)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	if !ok {
		return []model.Booking{}, nil
	}
	return model.DecodeBookings(raw)
}

// Snapshot loads both collections.
func (r *Repo) Snapshot(ctx context.Context) (Snapshot, error) {
	slots, err := r.Slots(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	bookings, err := r.Bookings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Slots: slots, Bookings: bookings}, nil
}

// GetJSON reads a scalar preference into dst, leaving dst unchanged when
// the key is absent.
func (r *Repo) GetJSON(ctx context.Context, key string, dst any) error {
	_, err := store.GetJSON(ctx, r.s, key, dst)
	return err
}

// SetJSON writes a single scalar preference.
func (r *Repo) SetJSON(ctx context.Context, key string, v any) error {
	return store.SetJSON(ctx, r.s, key, v)
}

// NewBatch starts an empty batch.
func (r *Repo) NewBatch() *Batch {
	return &Batch{entries: make(map[string][]byte)}
}

// Commit writes every entry of b with one SetMany.  An encoding error
// recorded in b aborts the commit before anything is written.
func (r *Repo) Commit(ctx context.Context, b *Batch) error {
	if b.err != nil {
		return b.err
	}
	if len(b.entries) == 0 {
		return nil
	}
	if err := r.s.SetMany(ctx, b.entries); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
