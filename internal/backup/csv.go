package backup

import (
	"cmp"
	"context"
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/NextStepSol/workshop-app/internal/locale"
	"github.com/NextStepSol/workshop-app/internal/model"
)

var csvHeader = []string{
	"slot_id", "slot_title", "starts_at", "ends_at", "archived",
	"booking_id", "salutation", "name", "phone", "count", "channel", "notes", "created_at",
}

// WriteCSV writes one row per booking joined with its slot, ordered by
// slot start and then booking creation.  Slots without bookings are
// omitted.
func WriteCSV(ctx context.Context, w io.Writer, src Source, f locale.Formatter) error {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return err
	}
	slots := make(map[string]model.Slot, len(snap.Slots))
	for _, s := range snap.Slots {
		slots[s.ID] = s
	}
	rows := slices.Clone(snap.Bookings)
	slices.SortStableFunc(rows, func(a, b model.Booking) int {
		sa, sb := slots[a.SlotID], slots[b.SlotID]
		return cmp.Or(
			sa.StartsAt.Compare(sb.StartsAt),
			cmp.Compare(a.SlotID, b.SlotID),
			a.CreatedAt.Compare(b.CreatedAt),
		)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range rows {
		s, ok := slots[b.SlotID]
		if !ok {
			continue
		}
		rec := []string{
			s.ID, s.Title, f.DateTime(s.StartsAt), f.DateTime(s.EndsAt), strconv.FormatBool(s.Archived),
			b.ID, b.Salutation, b.Name, b.Phone, strconv.Itoa(b.Count), b.Channel, b.Notes,
			f.DateTime(b.CreatedAt),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
