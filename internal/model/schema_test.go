package model

import (
	"errors"
	"testing"
	"time"
)

func TestDecodeSlotsEnvelopeAndLegacy(t *testing.T) {
	start := time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC)
	raw, err := EncodeSlots([]Slot{{ID: "s1", Title: "A", StartsAt: start, EndsAt: start.Add(time.Hour), Capacity: 3}})
	if err != nil {
		t.Fatal(err)
	}
	slots, err := DecodeSlots(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "s1" || slots[0].Capacity != 3 || !slots[0].StartsAt.Equal(start) {
		t.Fatalf("unexpected slots %+v", slots)
	}

	legacy := []byte(`[{"id":"s2","starts_at":"2026-10-16T17:00:00Z","ends_at":"2026-10-16T19:00:00Z"}]`)
	slots, err = DecodeSlots(legacy)
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if slots[0].Title != DefaultTitle || slots[0].Capacity != 0 || slots[0].Archived {
		t.Fatalf("defaults not applied: %+v", slots[0])
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"not json":       `{`,
		"future version": `{"version":2,"items":[]}`,
		"missing id":     `[{"starts_at":"2026-10-16T17:00:00Z","ends_at":"2026-10-16T19:00:00Z"}]`,
		"duplicate id": `[{"id":"a","starts_at":"2026-10-16T17:00:00Z","ends_at":"2026-10-16T19:00:00Z"},
			{"id":"a","starts_at":"2026-10-16T17:00:00Z","ends_at":"2026-10-16T19:00:00Z"}]`,
		"missing time":      `[{"id":"a","starts_at":"2026-10-16T17:00:00Z"}]`,
		"negative capacity": `[{"id":"a","starts_at":"2026-10-16T17:00:00Z","ends_at":"2026-10-16T19:00:00Z","capacity":-1}]`,
		"object items":      `{"version":1,"items":{}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSlots([]byte(doc))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("want ErrFormat, got %v", err)
			}
		})
	}
}

func TestDecodeBookings(t *testing.T) {
	bookings, err := DecodeBookings([]byte(`[{"id":"b1","slotId":"s1","name":"Anna","count":2}]`))
	if err != nil {
		t.Fatal(err)
	}
	b := bookings[0]
	if b.Salutation != DefaultSalutation || b.Count != 2 || b.SlotID != "s1" || b.Phone != "" {
		t.Fatalf("unexpected booking %+v", b)
	}

	for name, doc := range map[string]string{
		"no slot":    `[{"id":"b1","count":1}]`,
		"zero count": `[{"id":"b1","slotId":"s1","count":0}]`,
		"no count":   `[{"id":"b1","slotId":"s1"}]`,
	} {
		if _, err := DecodeBookings([]byte(doc)); !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: want ErrFormat, got %v", name, err)
		}
	}

	empty, err := DecodeBookings([]byte(`{"version":1,"items":null}`))
	if err != nil || len(empty) != 0 {
		t.Fatalf("null items: %v %v", empty, err)
	}
}

func TestPatchApply(t *testing.T) {
	s := Slot{ID: "s", Title: "A", Capacity: 5}
	c := 2
	got := SlotPatch{Capacity: &c}.Apply(s)
	if got.Title != "A" || got.Capacity != 2 || s.Capacity != 5 {
		t.Fatalf("slot patch: %+v (orig %+v)", got, s)
	}

	b := Booking{ID: "b", Name: "Anna", Notes: "x", Count: 1}
	notes := ""
	gotB := BookingPatch{Notes: &notes}.Apply(b)
	if gotB.Notes != "" || gotB.Name != "Anna" {
		t.Fatalf("booking patch: %+v", gotB)
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{Invalid("name", "is required"), ErrValidation},
		{&NotFoundError{Kind: "slot", ID: "x"}, ErrNotFound},
		{&CapacityError{SlotID: "x", Requested: 2, Remaining: 1}, ErrCapacity},
		{Malformed("bad %d", 1), ErrFormat},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Errorf("%v does not match %v", tc.err, tc.want)
		}
		if errors.Is(tc.err, errors.New(tc.want.Error())) {
			t.Errorf("%v matches an unrelated error", tc.err)
		}
	}
}

func TestParseSection(t *testing.T) {
	for in, want := range map[string]Section{"active": SectionActive, "archived": SectionArchived, "archive": SectionArchived} {
		got, err := ParseSection(in)
		if err != nil || got != want {
			t.Fatalf("%s: %v %v", in, got, err)
		}
	}
	if _, err := ParseSection("other"); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
