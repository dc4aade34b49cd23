// Package scheduler runs the expiry sweep on a cron schedule so the store
// converges even when nobody reads it.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper archives ended slots and reports how many it touched.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Scheduler wraps a cron runner with the sweep job.
type Scheduler struct {
	c *cron.Cron
}

// New registers the sweep on spec ("@every 1m", "*/5 * * * *", ...).
func New(ctx context.Context, spec string, sw Sweeper) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		n, err := sw.SweepExpired(ctx)
		if err != nil {
			log.Printf("scheduler: sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("scheduler: archived %d ended slot(s)", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid spec %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() { s.c.Start() }

// Stop halts scheduling and waits for a running sweep to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
