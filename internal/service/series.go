package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// MaxSeriesSlots caps how many slots one CreateSlotSeries call creates.
const MaxSeriesSlots = 52

// seriesHorizon bounds open-ended rules.
const seriesHorizon = 1 // years

// SeriesInput describes a recurring slot.  RRule is an RFC 5545 rule
// without DTSTART, e.g. "FREQ=WEEKLY;COUNT=6"; FirstStart is its DTSTART.
type SeriesInput struct {
	Title      string        `json:"title"`
	FirstStart time.Time     `json:"first_start"`
	Duration   time.Duration `json:"duration"`
	Capacity   int           `json:"capacity"`
	RRule      string        `json:"rrule"`
}

// CreateSlotSeries expands in.RRule and creates one slot per occurrence
// within a year of FirstStart, at most MaxSeriesSlots.  All slots are
// written at once; an invalid rule or slot creates nothing.
func (m *Manager) CreateSlotSeries(ctx context.Context, in SeriesInput) ([]model.Slot, error) {
	if in.FirstStart.IsZero() {
		return nil, model.Invalid("first_start", "is required")
	}
	if in.Duration <= 0 {
		return nil, model.Invalid("duration", "must be positive")
	}
	r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(in.RRule), "RRULE:"))
	if err != nil {
		return nil, model.Invalid("rrule", fmt.Sprintf("cannot parse: %v", err))
	}
	r.DTStart(in.FirstStart)
	starts, truncated := expandSeries(r, in.FirstStart.AddDate(seriesHorizon, 0, 0))
	if len(starts) == 0 {
		return nil, model.Invalid("rrule", "yields no occurrence within a year")
	}
	if truncated {
		log.Printf("series %q: truncated to %d occurrences", in.Title, MaxSeriesSlots)
	}

	created := make([]model.Slot, 0, len(starts))
	for _, st := range starts {
		s := model.Slot{
			ID:       m.newID(),
			Title:    strings.TrimSpace(in.Title),
			StartsAt: st,
			EndsAt:   st.Add(in.Duration),
			Capacity: in.Capacity,
		}
		if err := validateSlot(s); err != nil {
			m.stats.reject("validation")
			return nil, err
		}
		created = append(created, s)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	slots, err := m.repo.Slots(ctx)
	if err != nil {
		return nil, err
	}
	slots = append(slots, created...)
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutSlots(slots)); err != nil {
		return nil, err
	}
	m.stats.op("create_series")
	return created, nil
}

// expandSeries walks r lazily and returns at most MaxSeriesSlots
// occurrences up to horizon.  truncated is set when more would follow.
func expandSeries(r *rrule.RRule, horizon time.Time) (starts []time.Time, truncated bool) {
	next := r.Iterator()
	for {
		v, ok := next()
		if !ok || v.After(horizon) {
			return starts, false
		}
		if len(starts) == MaxSeriesSlots {
			return starts, true
		}
		starts = append(starts, v)
	}
}
