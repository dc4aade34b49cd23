// Package service implements the slot and booking lifecycle: every
// operation that mutates the collections, the expiry sweep and the read
// model handed to the HTTP layer.
//
// Each operation runs under one mutex from the first read to the last
// write, so two requests in this process never interleave.  Writes touching
// several keys are staged in a repository.Batch and committed with a single
// atomic SetMany.  Processes sharing one store are not coordinated: the last
// writer wins per key, and a booking accepted by one process can
// over-subscribe a slot another process filled in the meantime.
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/prefs"
	"github.com/NextStepSol/workshop-app/internal/queue"
	"github.com/NextStepSol/workshop-app/internal/repository"
	"github.com/NextStepSol/workshop-app/internal/utils"
)

// ReactivationPolicy decides what ToggleArchive(id, false) does for a slot
// whose end already lies in the past.
type ReactivationPolicy string

const (
	// RequireFutureEnd rejects the reactivation; the end time has to be
	// moved forward with EditSlot first.
	RequireFutureEnd ReactivationPolicy = "require-future-end"
	// Resweep accepts the reactivation; the next sweep archives the slot
	// again.
	Resweep ReactivationPolicy = "resweep"
)

// Options configures a Manager.  Zero values select sensible defaults.
type Options struct {
	Publisher    queue.Publisher
	Formatter    locale.Formatter
	Reactivation ReactivationPolicy
	Metrics      *Metrics
	Now          func() time.Time
	NewID        func() string
}

// Manager owns all mutations of the slot and booking collections.
type Manager struct {
	mu     sync.Mutex
	repo   *repository.Repo
	prefs  *prefs.Prefs
	pub    queue.Publisher
	format locale.Formatter
	policy ReactivationPolicy
	stats  *Metrics
	now    func() time.Time
	newID  func() string
}

// New builds a Manager on top of repo.
func New(repo *repository.Repo, opts Options) *Manager {
	m := &Manager{
		repo:   repo,
		prefs:  prefs.New(repo),
		pub:    opts.Publisher,
		format: opts.Formatter,
		policy: opts.Reactivation,
		stats:  opts.Metrics,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if m.pub == nil {
		m.pub = queue.Nop{}
	}
	if m.policy == "" {
		m.policy = RequireFutureEnd
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = utils.NewID
	}
	return m
}

// Prefs returns the preference store sharing this manager's repository.
func (m *Manager) Prefs() *prefs.Prefs { return m.prefs }

// Formatter returns the display formatter.
func (m *Manager) Formatter() locale.Formatter { return m.format }

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time { return m.now() }

// Snapshot reads both collections without sweeping.  It backs exports,
// which must see the store exactly as it is.
func (m *Manager) Snapshot(ctx context.Context) (repository.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.repo.Snapshot(ctx)
}

// Seed writes a demo slot (tomorrow 17:00–19:00, ten seats) and an empty
// booking collection when the store has never held slots.  It reports
// whether anything was written.
func (m *Manager) Seed(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, err := m.repo.HasSlots(ctx)
	if err != nil || ok {
		return false, err
	}
	now := m.now().In(m.format.Location())
	d := now.AddDate(0, 0, 1)
	start := time.Date(d.Year(), d.Month(), d.Day(), 17, 0, 0, 0, d.Location())
	slot := model.Slot{
		ID:       m.newID(),
		Title:    "Schmuck-Workshop",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
		Capacity: 10,
	}
	b := m.repo.NewBatch().PutSlots([]model.Slot{slot})
	if _, hasBookings, err := m.repo.Store().Get(ctx, repository.KeyBookings); err != nil {
		return false, err
	} else if !hasBookings {
		b.PutBookings(nil)
	}
	if err := m.repo.Commit(ctx, b); err != nil {
		return false, err
	}
	log.Printf("seed: created demo slot %s", slot.ID)
	return true, nil
}

func (m *Manager) publish(ctx context.Context, ev queue.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := m.pub.Publish(ctx, ev); err != nil {
		log.Printf("events: %s for booking %s not delivered: %v", ev.Type, ev.BookingID, err)
	}
}
