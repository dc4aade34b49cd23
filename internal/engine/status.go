// Package engine derives occupancy and lifecycle status of slots from the
// slot and booking collections.  Everything here is a pure function of
// its arguments and the supplied clock reading; nothing is cached or
// stored.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// Status is the lifecycle state shown for a slot.
type Status string

const (
	StatusOpen     Status = "open"
	StatusFull     Status = "full"
	StatusPast     Status = "past"
	StatusArchived Status = "archived"
)

// LowAvailabilityThreshold is the remaining-seat count at or below which
// an open slot is flagged as nearly full.
const LowAvailabilityThreshold = 2

// Booked sums the seat counts of all bookings that reference slot.
func Booked(slot model.Slot, bookings []model.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.SlotID == slot.ID {
			n += b.Count
		}
	}
	return n
}

// Remaining is capacity minus booked seats.  It goes negative when the
// capacity was edited below the booked total.
func Remaining(slot model.Slot, bookings []model.Booking) int {
	return slot.Capacity - Booked(slot, bookings)
}

// DisplayRemaining is Remaining clamped to zero.
func DisplayRemaining(slot model.Slot, bookings []model.Booking) int {
	return max(0, Remaining(slot, bookings))
}

// StatusOf applies the precedence archived → past → full → open.
func StatusOf(slot model.Slot, bookings []model.Booking, now time.Time) Status {
	return statusFor(slot, Remaining(slot, bookings), now)
}

func statusFor(slot model.Slot, remaining int, now time.Time) Status {
	switch {
	case slot.Archived:
		return StatusArchived
	case slot.Ended(now):
		return StatusPast
	case remaining <= 0:
		return StatusFull
	default:
		return StatusOpen
	}
}

// Evaluation bundles every derived value of one slot.
type Evaluation struct {
	Status          Status `json:"status"`
	Booked          int    `json:"booked"`
	Remaining       int    `json:"remaining"`        // clamped for display
	FillPercent     int    `json:"fill_percent"`     // 0..100
	LowAvailability bool   `json:"low_availability"` // open with few seats left
	OverSubscribed  bool   `json:"over_subscribed"`  // booked > capacity
}

// Evaluate computes the derived values of slot in a single pass over
// bookings.
func Evaluate(slot model.Slot, bookings []model.Booking, now time.Time) Evaluation {
	booked := Booked(slot, bookings)
	remaining := slot.Capacity - booked
	st := statusFor(slot, remaining, now)
	return Evaluation{
		Status:          st,
		Booked:          booked,
		Remaining:       max(0, remaining),
		FillPercent:     fillPercent(booked, slot.Capacity),
		LowAvailability: st == StatusOpen && remaining <= LowAvailabilityThreshold,
		OverSubscribed:  remaining < 0,
	}
}

func fillPercent(booked, capacity int) int {
	pct := (100*booked + max(1, capacity)/2) / max(1, capacity)
	return min(100, max(0, pct))
}

// Filter selects slots by status.  The zero value matches everything.
type Filter string

// FilterAny matches every status.
const FilterAny Filter = ""

// ParseFilter accepts "", "any" and the four status names.
func ParseFilter(s string) (Filter, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "any":
		return FilterAny, nil
	case string(StatusOpen), string(StatusFull), string(StatusPast), string(StatusArchived):
		return Filter(v), nil
	default:
		return FilterAny, model.Invalid("status", fmt.Sprintf("unknown filter %q", s))
	}
}

// Matches reports whether st passes the filter.
func (f Filter) Matches(st Status) bool {
	return f == FilterAny || Status(f) == st
}
