package view

import (
	"testing"
	"time"

	"github.com/NextStepSol/workshop-app/internal/engine"
	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/model"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixture() ([]model.Slot, []model.Booking) {
	at := func(h int) time.Time { return now.Add(time.Duration(h) * time.Hour) }
	slots := []model.Slot{
		{ID: "c", Title: "Ringe", StartsAt: at(72), EndsAt: at(74), Capacity: 5},
		{ID: "a", Title: "Ketten", StartsAt: at(24), EndsAt: at(26), Capacity: 2},
		{ID: "b", Title: "Ohrringe", StartsAt: at(24), EndsAt: at(26), Capacity: 5},
		{ID: "old1", Title: "Alt", StartsAt: at(-72), EndsAt: at(-70), Capacity: 5, Archived: true},
		{ID: "old2", Title: "Älter", StartsAt: at(-24), EndsAt: at(-22), Capacity: 5, Archived: true},
	}
	bookings := []model.Booking{
		{ID: "b2", SlotID: "a", Name: "Zoe", Phone: "0171", Count: 1, CreatedAt: now.Add(time.Minute)},
		{ID: "b1", SlotID: "a", Name: "Anna", Phone: "0160", Notes: "Geschenk", Count: 1, CreatedAt: now},
		{ID: "b3", SlotID: "c", Name: "Ben", Phone: "0152", Count: 2, CreatedAt: now},
	}
	return slots, bookings
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Slot.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProjectOrdering(t *testing.T) {
	slots, bookings := fixture()
	p := Project(slots, bookings, Query{}, now, nil)
	if got := ids(p.Active); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("active order %v", got)
	}
	if got := ids(p.Archived); !equal(got, []string{"old2", "old1"}) {
		t.Fatalf("archived order %v", got)
	}
	if got := p.Active[0].Bookings; got[0].ID != "b1" || got[1].ID != "b2" {
		t.Fatalf("bookings not in creation order: %+v", got)
	}
	if p.Active[1].Bookings == nil {
		t.Fatal("slot without bookings should carry an empty slice")
	}
	if p.Active[0].Status != engine.StatusFull {
		t.Fatalf("slot a should be full, got %s", p.Active[0].Status)
	}
	if p.Len() != 5 {
		t.Fatalf("len %d", p.Len())
	}

	var sections []model.Section
	for sec := range p.All() {
		sections = append(sections, sec)
	}
	if len(sections) != 5 || sections[0] != model.SectionActive || sections[4] != model.SectionArchived {
		t.Fatalf("All() sections %v", sections)
	}
}

func TestProjectTextQuery(t *testing.T) {
	slots, bookings := fixture()
	f := locale.New(time.UTC)
	cases := []struct {
		q      string
		active []string
		arch   []string
	}{
		{"ring", []string{"b", "c"}, nil},
		{"RINGE", []string{"b", "c"}, nil},
		{"anna", []string{"a"}, nil},
		{"0152", []string{"c"}, nil},
		{"geschenk", []string{"a"}, nil},
		{"älter", nil, []string{"old2"}},
		{"18.10.26", []string{"c"}, nil},
		{"nichts", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			p := Project(slots, bookings, Query{Text: tc.q}, now, f.DateTime)
			if got := ids(p.Active); !equal(got, tc.active) {
				t.Fatalf("active %v, want %v", got, tc.active)
			}
			if got := ids(p.Archived); !equal(got, tc.arch) {
				t.Fatalf("archived %v, want %v", got, tc.arch)
			}
		})
	}
}

func TestProjectStatusFilter(t *testing.T) {
	slots, bookings := fixture()
	p := Project(slots, bookings, Query{Status: engine.Filter(engine.StatusOpen)}, now, nil)
	if got := ids(p.Active); !equal(got, []string{"b", "c"}) {
		t.Fatalf("open %v", got)
	}
	if len(p.Archived) != 0 {
		t.Fatalf("archived rows leaked: %v", ids(p.Archived))
	}
	p = Project(slots, bookings, Query{Text: "ring", Status: engine.Filter(engine.StatusArchived)}, now, nil)
	if p.Len() != 0 {
		t.Fatalf("combined filters should match nothing, got %d", p.Len())
	}
}
