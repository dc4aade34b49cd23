// Package message renders booking confirmation texts from the operator's
// template and builds share links for them.
package message

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/model"
)

// Placeholder tokens understood by Render.
const (
	TokenSalutation = "[Anrede]"
	TokenName       = "[Name]"
	TokenDate       = "[Datum]"
	TokenCount      = "[Anzahl]"
	TokenDative     = "[Du_Dat]"
	TokenAccusative = "[Du_Akk]"
)

// Pronouns returns the dative and accusative forms addressing count
// people: "dir"/"dich" for one, "euch"/"euch" for several.
func Pronouns(count int) (dative, accusative string) {
	if count == 1 {
		return "dir", "dich"
	}
	return "euch", "euch"
}

// Render substitutes the placeholder tokens of tpl for booking b of slot
// s.  Replacement is literal; unknown tokens stay as they are.
func Render(tpl string, b model.Booking, s model.Slot, f locale.Formatter) string {
	dat, akk := Pronouns(b.Count)
	salutation := b.Salutation
	if salutation == "" {
		salutation = model.DefaultSalutation
	}
	r := strings.NewReplacer(
		TokenSalutation, salutation,
		TokenName, b.Name,
		TokenDate, f.DateTime(s.StartsAt),
		TokenCount, strconv.Itoa(b.Count),
		TokenDative, dat,
		TokenAccusative, akk,
	)
	return r.Replace(tpl)
}

// NormalizePhoneDE reduces a German phone number to the international
// digit form wa.me expects: non-digits are dropped, a "00" prefix is
// removed and a national leading "0" becomes "49".
func NormalizePhoneDE(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if strings.HasPrefix(d, "00") {
		d = d[2:]
	}
	if strings.HasPrefix(d, "0") {
		d = "49" + d[1:]
	}
	return d
}

// ShareLink returns a wa.me link that opens a chat with phone prefilled
// with text.
func ShareLink(phone, text string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + NormalizePhoneDE(phone),
		RawQuery: url.Values{"text": {text}}.Encode(),
	}
	return u.String()
}
