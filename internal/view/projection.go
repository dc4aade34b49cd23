// Package view turns the slot and booking collections into the ordered,
// filtered list the client renders: an Active section sorted by start
// time and an Archived section sorted newest first.
package view

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/NextStepSol/workshop-app/internal/engine"
	"github.com/NextStepSol/workshop-app/internal/model"
)

// Query narrows the projection.  The zero value matches every slot.
type Query struct {
	Text   string
	Status engine.Filter
}

// Row is one slot annotated with its derived values and its bookings.
type Row struct {
	Slot model.Slot `json:"slot"`
	engine.Evaluation
	Bookings []model.Booking `json:"bookings"`
}

// Projection is the filtered, partitioned and sorted result.
type Projection struct {
	Active   []Row
	Archived []Row
}

// All yields every row with its section, active rows first.  The sequence
// can be ranged over any number of times.
func (p Projection) All() iter.Seq2[model.Section, Row] {
	return func(yield func(model.Section, Row) bool) {
		for _, r := range p.Active {
			if !yield(model.SectionActive, r) {
				return
			}
		}
		for _, r := range p.Archived {
			if !yield(model.SectionArchived, r) {
				return
			}
		}
	}
}

// Len returns the total number of rows.
func (p Projection) Len() int { return len(p.Active) + len(p.Archived) }

// Project filters slots by q and partitions them by archived flag.
// formatStart renders a start time the way the client shows it, so that
// searching for "16.10." finds slots on that day.
func Project(slots []model.Slot, bookings []model.Booking, q Query, now time.Time, formatStart func(time.Time) string) Projection {
	bySlot := make(map[string][]model.Booking)
	for _, b := range bookings {
		bySlot[b.SlotID] = append(bySlot[b.SlotID], b)
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var p Projection
	for _, s := range slots {
		own := bySlot[s.ID]
		if !matchesText(s, own, needle, formatStart) {
			continue
		}
		ev := engine.Evaluate(s, own, now)
		if !q.Status.Matches(ev.Status) {
			continue
		}
		sorted := slices.Clone(own)
		slices.SortStableFunc(sorted, func(a, b model.Booking) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		if sorted == nil {
			sorted = []model.Booking{}
		}
		row := Row{Slot: s, Evaluation: ev, Bookings: sorted}
		if s.Archived {
			p.Archived = append(p.Archived, row)
		} else {
			p.Active = append(p.Active, row)
		}
	}

	slices.SortFunc(p.Active, func(a, b Row) int {
		return cmp.Or(a.Slot.StartsAt.Compare(b.Slot.StartsAt), cmp.Compare(a.Slot.ID, b.Slot.ID))
	})
	slices.SortFunc(p.Archived, func(a, b Row) int {
		return cmp.Or(b.Slot.StartsAt.Compare(a.Slot.StartsAt), cmp.Compare(a.Slot.ID, b.Slot.ID))
	})
	return p
}

func matchesText(s model.Slot, own []model.Booking, needle string, formatStart func(time.Time) string) bool {
	if needle == "" {
		return true
	}
	start := ""
	if formatStart != nil {
		start = formatStart(s.StartsAt)
	}
	if strings.Contains(strings.ToLower(s.Title+" "+start), needle) {
		return true
	}
	for _, b := range own {
		if strings.Contains(strings.ToLower(b.Name+" "+b.Phone+" "+b.Notes), needle) {
			return true
		}
	}
	return false
}
