package model

import "time"

// Slot is a bookable time window with a finite number of seats.
//
// Fields:
//  ID       – opaque unique identifier.
//  Title    – free text shown to the operator, never empty.
//  StartsAt – when the slot begins.
//  EndsAt   – when the slot ends (must be after StartsAt).
//  Capacity – maximum total seats across all bookings (>= 0).
//  Archived – retired from the active view, either manually or by the
//             expiry sweep.  Only an explicit reactivation clears it.
type Slot struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity int       `json:"capacity"`
	Archived bool      `json:"archived"`
}

// Ended reports whether the slot's end lies before now.
func (s Slot) Ended(now time.Time) bool {
	return s.EndsAt.Before(now)
}

// SlotPatch carries the fields of an EditSlot call.  Nil fields are left
// untouched.
type SlotPatch struct {
	Title    *string    `json:"title,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Capacity *int       `json:"capacity,omitempty"`
}

// Apply returns a copy of s with the non-nil patch fields written over it.
func (p SlotPatch) Apply(s Slot) Slot {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.StartsAt != nil {
		s.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		s.EndsAt = *p.EndsAt
	}
	if p.Capacity != nil {
		s.Capacity = *p.Capacity
	}
	return s
}
