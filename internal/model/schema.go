package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// SchemaVersion is the envelope version written by EncodeSlots and
// EncodeBookings.  Version 0 is the legacy bare JSON array.
const SchemaVersion = 1

// DefaultTitle replaces a missing slot title in legacy records.
const DefaultTitle = "Workshop"

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// slotRecord mirrors Slot with pointers so missing fields can be told
// apart from zero values.
type slotRecord struct {
	ID       string     `json:"id"`
	Title    *string    `json:"title"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Capacity *int       `json:"capacity"`
	Archived *bool      `json:"archived"`
}

type bookingRecord struct {
	ID         string     `json:"id"`
	SlotID     string     `json:"slotId"`
	Salutation *string    `json:"salutation"`
	Name       *string    `json:"name"`
	Phone      *string    `json:"phone"`
	Notes      *string    `json:"notes"`
	Count      *int       `json:"count"`
	Channel    *string    `json:"channel"`
	CreatedAt  *time.Time `json:"created_at"`
}

// EncodeSlots wraps slots in a versioned envelope.
func EncodeSlots(slots []Slot) ([]byte, error) {
	return encodeItems(slots)
}

// EncodeBookings wraps bookings in a versioned envelope.
func EncodeBookings(bookings []Booking) ([]byte, error) {
	return encodeItems(bookings)
}

func encodeItems[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: raw})
}

// DecodeSlots parses a stored slot collection, either an envelope or a
// legacy bare array, and validates every record.
func DecodeSlots(data []byte) ([]Slot, error) {
	items, err := unwrap(data)
	if err != nil {
		return nil, err
	}
	return SlotsFromJSON(items)
}

// DecodeBookings is the booking counterpart of DecodeSlots.
func DecodeBookings(data []byte) ([]Booking, error) {
	items, err := unwrap(data)
	if err != nil {
		return nil, err
	}
	return BookingsFromJSON(items)
}

func unwrap(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, Malformed("empty document")
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, Malformed("decode envelope: %v", err)
	}
	if env.Version != SchemaVersion {
		return nil, Malformed("unsupported schema version %d", env.Version)
	}
	if len(env.Items) == 0 || bytes.Equal(env.Items, []byte("null")) {
		return json.RawMessage("[]"), nil
	}
	return env.Items, nil
}

// SlotsFromJSON decodes a JSON array of slot records.  Missing optional
// fields get defaults; missing identity or time fields, negative
// capacities and duplicate ids are rejected with a *FormatError.
func SlotsFromJSON(raw json.RawMessage) ([]Slot, error) {
	var recs []slotRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, Malformed("decode slots: %v", err)
	}
	out := make([]Slot, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return nil, Malformed("slot #%d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, Malformed("slot %q: duplicate id", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.StartsAt == nil || r.EndsAt == nil {
			return nil, Malformed("slot %q: missing starts_at/ends_at", r.ID)
		}
		s := Slot{
			ID:       r.ID,
			Title:    DefaultTitle,
			StartsAt: *r.StartsAt,
			EndsAt:   *r.EndsAt,
		}
		if r.Title != nil && *r.Title != "" {
			s.Title = *r.Title
		}
		if r.Capacity != nil {
			if *r.Capacity < 0 {
				return nil, Malformed("slot %q: negative capacity", r.ID)
			}
			s.Capacity = *r.Capacity
		}
		if r.Archived != nil {
			s.Archived = *r.Archived
		}
		out = append(out, s)
	}
	return out, nil
}

// BookingsFromJSON decodes a JSON array of booking records with the same
// rules as SlotsFromJSON.  A booking must name its slot and hold at least
// one seat.
func BookingsFromJSON(raw json.RawMessage) ([]Booking, error) {
	var recs []bookingRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, Malformed("decode bookings: %v", err)
	}
	out := make([]Booking, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return nil, Malformed("booking #%d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, Malformed("booking %q: duplicate id", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.SlotID == "" {
			return nil, Malformed("booking %q: missing slotId", r.ID)
		}
		if r.Count == nil || *r.Count <= 0 {
			return nil, Malformed("booking %q: count must be positive", r.ID)
		}
		b := Booking{
			ID:         r.ID,
			SlotID:     r.SlotID,
			Salutation: DefaultSalutation,
			Name:       deref(r.Name),
			Phone:      deref(r.Phone),
			Notes:      deref(r.Notes),
			Count:      *r.Count,
			Channel:    deref(r.Channel),
		}
		if r.Salutation != nil && *r.Salutation != "" {
			b.Salutation = *r.Salutation
		}
		if r.CreatedAt != nil {
			b.CreatedAt = *r.CreatedAt
		}
		out = append(out, b)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
