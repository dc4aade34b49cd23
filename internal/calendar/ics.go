// Package calendar exports slots as iCalendar documents.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/NextStepSol/workshop-app/internal/model"
)

const productID = "-//NextStepSol//workshop-app//DE"

// UID returns the stable iCalendar UID of a slot.
func UID(s model.Slot) string {
	return s.ID + "@workshop-app"
}

// SlotICS renders s as a VCALENDAR with a single VEVENT.  stamp is used
// for DTSTAMP so output is reproducible in tests.
func SlotICS(s model.Slot, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(UID(s))
	ev.SetDtStampTime(stamp.UTC())
	ev.SetStartAt(s.StartsAt.UTC())
	ev.SetEndAt(s.EndsAt.UTC())
	ev.SetSummary(s.Title)
	ev.SetDescription(fmt.Sprintf("Kapazität: %d", s.Capacity))
	return cal.Serialize()
}

// Filename suggests a download name for the slot's .ics file.
func Filename(s model.Slot) string {
	return fmt.Sprintf("termin-%s.ics", s.StartsAt.UTC().Format("20060102-1504"))
}
