package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/NextStepSol/workshop-app/internal/model"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func slotAt(start time.Time, capacity int, archived bool) model.Slot {
	return model.Slot{ID: "s", Title: "T", StartsAt: start, EndsAt: start.Add(2 * time.Hour), Capacity: capacity, Archived: archived}
}

func seats(n ...int) []model.Booking {
	out := make([]model.Booking, 0, len(n))
	for _, c := range n {
		out = append(out, model.Booking{SlotID: "s", Count: c})
	}
	return append(out, model.Booking{SlotID: "other", Count: 99})
}

func TestStatusPrecedence(t *testing.T) {
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	cases := []struct {
		name     string
		slot     model.Slot
		bookings []model.Booking
		want     Status
	}{
		{"open", slotAt(future, 10, false), seats(3), StatusOpen},
		{"full exactly", slotAt(future, 4, false), seats(2, 2), StatusFull},
		{"over-subscribed", slotAt(future, 2, false), seats(5), StatusFull},
		{"zero capacity", slotAt(future, 0, false), nil, StatusFull},
		{"past beats full", slotAt(past, 1, false), seats(1), StatusPast},
		{"archived beats past", slotAt(past, 10, true), nil, StatusArchived},
		{"archived future", slotAt(future, 10, true), nil, StatusArchived},
		{"ends exactly now", slotAt(now.Add(-2*time.Hour), 10, false), nil, StatusOpen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.slot, tc.bookings, now); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	s := slotAt(now, 5, false)
	b := seats(4, 3)
	if got := Booked(s, b); got != 7 {
		t.Fatalf("booked = %d", got)
	}
	if got := Remaining(s, b); got != -2 {
		t.Fatalf("remaining = %d", got)
	}
	if got := DisplayRemaining(s, b); got != 0 {
		t.Fatalf("display remaining = %d", got)
	}
}

func TestEvaluate(t *testing.T) {
	future := now.Add(time.Hour)
	cases := []struct {
		name     string
		capacity int
		booked   []int
		fill     int
		low      bool
		over     bool
	}{
		{"empty", 10, nil, 0, false, false},
		{"half", 10, []int{5}, 50, false, false},
		{"low", 10, []int{8}, 80, true, false},
		{"full is not low", 10, []int{10}, 100, false, false},
		{"over", 4, []int{6}, 100, false, true},
		{"zero capacity", 0, nil, 0, false, false},
		{"rounding", 3, []int{1}, 33, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Evaluate(slotAt(future, tc.capacity, false), seats(tc.booked...), now)
			if ev.FillPercent != tc.fill || ev.LowAvailability != tc.low || ev.OverSubscribed != tc.over {
				t.Fatalf("got %+v", ev)
			}
			if ev.Remaining < 0 {
				t.Fatalf("remaining not clamped: %d", ev.Remaining)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	for _, in := range []string{"", "any", "ANY"} {
		f, err := ParseFilter(in)
		if err != nil || f != FilterAny {
			t.Fatalf("%q: %v %v", in, f, err)
		}
		if !f.Matches(StatusPast) {
			t.Fatalf("%q should match everything", in)
		}
	}
	f, err := ParseFilter(" Full ")
	if err != nil || !f.Matches(StatusFull) || f.Matches(StatusOpen) {
		t.Fatalf("full filter: %v %v", f, err)
	}
	if _, err := ParseFilter("soon"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
