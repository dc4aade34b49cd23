package message

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/model"
)

func TestRender(t *testing.T) {
	f := locale.New(time.UTC)
	s := model.Slot{StartsAt: time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC)}
	cases := []struct {
		name string
		tpl  string
		b    model.Booking
		want string
	}{
		{
			"single",
			"[Anrede] [Name], [Datum] für [Anzahl]: [Du_Dat]/[Du_Akk]",
			model.Booking{Salutation: "Liebe", Name: "Anna", Count: 1},
			"Liebe Anna, 16.10.26, 17:00 für 1: dir/dich",
		},
		{
			"group",
			"[Du_Dat] [Du_Akk] [Anzahl]",
			model.Booking{Name: "Anna", Count: 3},
			"euch euch 3",
		},
		{
			"default salutation",
			"[Anrede]",
			model.Booking{Count: 1},
			model.DefaultSalutation,
		},
		{
			"unknown tokens stay",
			"[Name] [Unbekannt] [name]",
			model.Booking{Name: "Ben", Count: 1},
			"Ben [Unbekannt] [name]",
		},
		{
			"repeated tokens",
			"[Name][Name]",
			model.Booking{Name: "Ben", Count: 1},
			"BenBen",
		},
		{
			"value looking like a token",
			"[Name] [Anzahl]",
			model.Booking{Name: "[Anzahl]", Count: 2},
			"[Anzahl] 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.tpl, tc.b, s, f); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneDE(t *testing.T) {
	cases := map[string]string{
		"0171 1234567":     "491711234567",
		"+49 171 1234567":  "491711234567",
		"0049 (171) 12-34": "491711234",
		"491711234567":     "491711234567",
		"":                 "",
	}
	for in, want := range cases {
		if got := NormalizePhoneDE(in); got != want {
			t.Errorf("NormalizePhoneDE(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShareLink(t *testing.T) {
	link := ShareLink("0171 1234567", "Hallo Anna & Ben?")
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "wa.me" || u.Path != "/491711234567" {
		t.Fatalf("unexpected link %s", link)
	}
	if got := u.Query().Get("text"); got != "Hallo Anna & Ben?" {
		t.Fatalf("text = %q", got)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("link not escaped: %s", link)
	}
}
