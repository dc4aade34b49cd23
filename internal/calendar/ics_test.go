package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/NextStepSol/workshop-app/internal/model"
)

func TestSlotICS(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*3600)
	s := model.Slot{
		ID:       "abc",
		Title:    "Schmuck-Workshop",
		StartsAt: time.Date(2026, 10, 16, 17, 0, 0, 0, berlin),
		EndsAt:   time.Date(2026, 10, 16, 19, 0, 0, 0, berlin),
		Capacity: 10,
	}
	out := SlotICS(s, time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:abc@workshop-app",
		"SUMMARY:Schmuck-Workshop",
		"DTSTART:20261016T150000Z",
		"DTEND:20261016T170000Z",
		"DTSTAMP:20261015T080000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 || events[0].Id() != UID(s) {
		t.Fatalf("expected one event with uid %s", UID(s))
	}
	start, err := events[0].GetStartAt()
	if err != nil || !start.Equal(s.StartsAt) {
		t.Fatalf("start %v (%v), want %v", start, err, s.StartsAt)
	}
}

func TestFilename(t *testing.T) {
	s := model.Slot{StartsAt: time.Date(2026, 10, 16, 17, 30, 0, 0, time.UTC)}
	if got := Filename(s); got != "termin-20261016-1730.ics" {
		t.Fatalf("filename %q", got)
	}
}
