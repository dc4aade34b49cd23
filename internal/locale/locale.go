// Package locale holds the single display locale of the application:
// German short date/time formatting in a configurable time zone.
package locale

import "time"

// DateTimeLayout matches the de-DE short date + short time style,
// e.g. "16.10.26, 17:00".
const DateTimeLayout = "02.01.06, 15:04"

// Formatter renders timestamps in a fixed zone.
type Formatter struct {
	loc *time.Location
}

// New returns a Formatter for loc (time.Local when nil).
func New(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

// Location returns the display zone.
func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.Local
	}
	return f.loc
}

// DateTime formats t with DateTimeLayout.
func (f Formatter) DateTime(t time.Time) string {
	return t.In(f.Location()).Format(DateTimeLayout)
}
