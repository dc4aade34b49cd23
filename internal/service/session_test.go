package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextStepSol/workshop-app/internal/model"
)

func TestSubmitBookingNewThenEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, "A", t0.Add(24*time.Hour), 5)

	sess, err := f.mgr.OpenBookingSession(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, sess.IsNew())

	b, sess, err := f.mgr.SubmitBooking(ctx, sess, BookingForm{Name: "Anna", Phone: "1", Count: 2})
	require.NoError(t, err)
	assert.False(t, sess.IsNew())
	assert.Equal(t, b.ID, sess.BookingID)

	// submitting the same session again edits instead of duplicating
	b2, _, err := f.mgr.SubmitBooking(ctx, sess, BookingForm{Name: "Anna B.", Phone: "1", Count: 3, Notes: "vegan"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, b2.ID)
	assert.Equal(t, "Anna B.", b2.Name)

	bookings, err := f.mgr.BookingsBySlot(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 3, bookings[0].Count)
	assert.Equal(t, "vegan", bookings[0].Notes)
}

func TestSessionsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, "A", t0.Add(24*time.Hour), 5)
	a := f.book(t, s.ID, "Anna", 1)
	b := f.book(t, s.ID, "Ben", 1)

	sa, _, err := f.mgr.EditBookingSession(ctx, a.ID)
	require.NoError(t, err)
	sb, prefill, err := f.mgr.EditBookingSession(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ben", prefill.Name)

	_, _, err = f.mgr.SubmitBooking(ctx, sb, BookingForm{Name: "Ben", Phone: "2", Count: 2})
	require.NoError(t, err)
	_, _, err = f.mgr.SubmitBooking(ctx, sa, BookingForm{Name: "Anna", Phone: "1", Count: 1, Notes: "x"})
	require.NoError(t, err)

	got, err := f.mgr.Booking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "", got.Notes)
}

func TestSubmitBookingSessionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, "A", t0.Add(24*time.Hour), 5)
	other := f.slot(t, "B", t0.Add(48*time.Hour), 5)
	b := f.book(t, s.ID, "Anna", 1)

	_, err := f.mgr.OpenBookingSession(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, _, err = f.mgr.SubmitBooking(ctx, EditSession{}, BookingForm{Name: "A", Phone: "1", Count: 1})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, _, err = f.mgr.SubmitBooking(ctx, EditSession{SlotID: other.ID, BookingID: b.ID}, BookingForm{Name: "A", Phone: "1", Count: 1})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, _, err = f.mgr.SubmitBooking(ctx, EditSession{SlotID: s.ID, BookingID: "gone"}, BookingForm{Name: "A", Phone: "1", Count: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, f.mgr.DeleteSessionBooking(ctx, EditSession{SlotID: s.ID}), model.ErrValidation)
	require.NoError(t, f.mgr.DeleteSessionBooking(ctx, EditSession{SlotID: s.ID, BookingID: b.ID}))
}

func TestCreateSlotSeries(t *testing.T) {
	start := time.Date(2026, 10, 20, 17, 0, 0, 0, time.UTC)
	cases := []struct {
		rule string
		want int
	}{
		{"FREQ=WEEKLY;COUNT=6", 6},
		{"RRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=3", 3},
		{"FREQ=WEEKLY", MaxSeriesSlots},
		{"FREQ=DAILY", MaxSeriesSlots},
		{"FREQ=SECONDLY", MaxSeriesSlots},
		{"FREQ=MINUTELY;INTERVAL=15", MaxSeriesSlots},
	}
	for _, tc := range cases {
		t.Run(tc.rule, func(t *testing.T) {
			f := newFixture(t)
			slots, err := f.mgr.CreateSlotSeries(context.Background(), SeriesInput{
				Title: "Serie", FirstStart: start, Duration: 90 * time.Minute, Capacity: 8, RRule: tc.rule,
			})
			require.NoError(t, err)
			require.Len(t, slots, tc.want)
			assert.Equal(t, start, slots[0].StartsAt)
			assert.Equal(t, start.Add(90*time.Minute), slots[0].EndsAt)
			if tc.want > 1 {
				assert.True(t, slots[1].StartsAt.After(slots[0].StartsAt))
			}
			stored, err := f.repo.Slots(context.Background())
			require.NoError(t, err)
			assert.Len(t, stored, tc.want)
		})
	}
}

func TestCreateSlotSeriesStopsAtCap(t *testing.T) {
	f := newFixture(t)
	start := t0.Add(24 * time.Hour)
	began := time.Now()
	slots, err := f.mgr.CreateSlotSeries(context.Background(), SeriesInput{
		Title: "Sekunden", FirstStart: start, Duration: time.Hour, Capacity: 1, RRule: "FREQ=SECONDLY",
	})
	require.NoError(t, err)
	require.Len(t, slots, MaxSeriesSlots)
	assert.Equal(t, start.Add(time.Duration(MaxSeriesSlots-1)*time.Second), slots[MaxSeriesSlots-1].StartsAt)
	assert.Less(t, time.Since(began), 2*time.Second, "expansion must stop at the cap")
}

func TestCreateSlotSeriesHorizon(t *testing.T) {
	f := newFixture(t)
	start := t0.Add(24 * time.Hour)
	slots, err := f.mgr.CreateSlotSeries(context.Background(), SeriesInput{
		Title: "Quartal", FirstStart: start, Duration: time.Hour, Capacity: 4, RRule: "FREQ=MONTHLY;INTERVAL=3",
	})
	require.NoError(t, err)
	assert.Len(t, slots, 5, "start plus four quarters fit within a year")
}

func TestCreateSlotSeriesRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := t0.Add(24 * time.Hour)
	bad := []SeriesInput{
		{Title: "S", FirstStart: start, Duration: time.Hour, Capacity: 1, RRule: "FREQ=SOMETIMES"},
		{Title: "S", FirstStart: start, Duration: 0, Capacity: 1, RRule: "FREQ=DAILY"},
		{Title: "S", Duration: time.Hour, Capacity: 1, RRule: "FREQ=DAILY"},
		{Title: "", FirstStart: start, Duration: time.Hour, Capacity: 1, RRule: "FREQ=DAILY;COUNT=2"},
		{Title: "S", FirstStart: start, Duration: time.Hour, Capacity: -1, RRule: "FREQ=DAILY;COUNT=2"},
	}
	for _, in := range bad {
		_, err := f.mgr.CreateSlotSeries(ctx, in)
		assert.ErrorIs(t, err, model.ErrValidation, "%+v", in)
	}
	slots, err := f.repo.Slots(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestReplaceAllRejectsOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, "A", t0.Add(24*time.Hour), 5)
	f.book(t, s.ID, "Anna", 1)

	err := f.mgr.ReplaceAll(ctx, nil, []model.Booking{{ID: "b", SlotID: "x", Count: 1}})
	assert.ErrorIs(t, err, model.ErrFormat)

	snap, err := f.repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Slots, 1)
	assert.Len(t, snap.Bookings, 1)
}
