package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/NextStepSol/workshop-app/internal/engine"
	"github.com/NextStepSol/workshop-app/internal/message"
	"github.com/NextStepSol/workshop-app/internal/model"
	"github.com/NextStepSol/workshop-app/internal/queue"
)

// BookingInput carries the fields of a new booking.
type BookingInput struct {
	SlotID     string `json:"slot_id"`
	Salutation string `json:"salutation"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Notes      string `json:"notes"`
	Count      int    `json:"count"`
	Channel    string `json:"channel"`
}

func normalizeBooking(b model.Booking) model.Booking {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Notes = strings.TrimSpace(b.Notes)
	b.Channel = strings.TrimSpace(b.Channel)
	b.Salutation = strings.TrimSpace(b.Salutation)
	if b.Salutation == "" {
		b.Salutation = model.DefaultSalutation
	}
	return b
}

func validateBooking(b model.Booking) error {
	if b.Name == "" {
		return model.Invalid("name", "is required")
	}
	if b.Phone == "" {
		return model.Invalid("phone", "is required")
	}
	if b.Count <= 0 {
		return model.Invalid("count", "must be at least 1")
	}
	return nil
}

// CreateBooking reserves in.Count seats of slot in.SlotID.  It fails with
// a *model.CapacityError when fewer seats than requested are left.
func (m *Manager) CreateBooking(ctx context.Context, in BookingInput) (model.Booking, error) {
	b, ev, err := m.createBooking(ctx, in)
	if err != nil {
		return model.Booking{}, err
	}
	m.publish(ctx, ev)
	return b, nil
}

func (m *Manager) createBooking(ctx context.Context, in BookingInput) (model.Booking, queue.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return model.Booking{}, queue.BookingEvent{}, err
	}
	i := indexSlot(snap.Slots, in.SlotID)
	if i < 0 {
		return model.Booking{}, queue.BookingEvent{}, &model.NotFoundError{Kind: "slot", ID: in.SlotID}
	}
	slot := snap.Slots[i]
	b := normalizeBooking(model.Booking{
		ID:         m.newID(),
		SlotID:     slot.ID,
		Salutation: in.Salutation,
		Name:       in.Name,
		Phone:      in.Phone,
		Notes:      in.Notes,
		Count:      in.Count,
		Channel:    in.Channel,
		CreatedAt:  m.now(),
	})
	if err := validateBooking(b); err != nil {
		m.stats.reject("validation")
		return model.Booking{}, queue.BookingEvent{}, err
	}
	if remaining := engine.Remaining(slot, snap.Bookings); b.Count > remaining {
		m.stats.reject("capacity")
		return model.Booking{}, queue.BookingEvent{}, &model.CapacityError{SlotID: slot.ID, Requested: b.Count, Remaining: max(0, remaining)}
	}
	bookings := append(snap.Bookings, b)
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutBookings(bookings)); err != nil {
		return model.Booking{}, queue.BookingEvent{}, err
	}
	m.stats.op("create_booking")
	return b, m.bookingEvent(ctx, queue.BookingCreated, b, slot), nil
}

// EditBooking overwrites the given fields of booking id.  The capacity
// check only applies when the seat count grows, and the booking's own
// previous seats count as free for it: a booking can always be kept at or
// reduced below its current size.
func (m *Manager) EditBooking(ctx context.Context, id string, patch model.BookingPatch) (model.Booking, error) {
	b, ev, err := m.editBooking(ctx, id, patch)
	if err != nil {
		return model.Booking{}, err
	}
	m.publish(ctx, ev)
	return b, nil
}

func (m *Manager) editBooking(ctx context.Context, id string, patch model.BookingPatch) (model.Booking, queue.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return model.Booking{}, queue.BookingEvent{}, err
	}
	j := indexBooking(snap.Bookings, id)
	if j < 0 {
		return model.Booking{}, queue.BookingEvent{}, &model.NotFoundError{Kind: "booking", ID: id}
	}
	old := snap.Bookings[j]
	i := indexSlot(snap.Slots, old.SlotID)
	if i < 0 {
		return model.Booking{}, queue.BookingEvent{}, &model.NotFoundError{Kind: "slot", ID: old.SlotID}
	}
	slot := snap.Slots[i]

	updated := normalizeBooking(patch.Apply(old))
	if err := validateBooking(updated); err != nil {
		m.stats.reject("validation")
		return model.Booking{}, queue.BookingEvent{}, err
	}
	if updated.Count > old.Count {
		available := slot.Capacity - (engine.Booked(slot, snap.Bookings) - old.Count)
		if updated.Count > available {
			m.stats.reject("capacity")
			return model.Booking{}, queue.BookingEvent{}, &model.CapacityError{SlotID: slot.ID, Requested: updated.Count, Remaining: max(0, available)}
		}
	}
	snap.Bookings[j] = updated
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutBookings(snap.Bookings)); err != nil {
		return model.Booking{}, queue.BookingEvent{}, err
	}
	m.stats.op("edit_booking")
	return updated, m.bookingEvent(ctx, queue.BookingUpdated, updated, slot), nil
}

// DeleteBooking removes booking id.
func (m *Manager) DeleteBooking(ctx context.Context, id string) error {
	ev, err := m.deleteBooking(ctx, id)
	if err != nil {
		return err
	}
	m.publish(ctx, ev)
	return nil
}

func (m *Manager) deleteBooking(ctx context.Context, id string) (queue.BookingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return queue.BookingEvent{}, err
	}
	j := indexBooking(snap.Bookings, id)
	if j < 0 {
		return queue.BookingEvent{}, &model.NotFoundError{Kind: "booking", ID: id}
	}
	removed := snap.Bookings[j]
	bookings := slices.Delete(snap.Bookings, j, j+1)
	if err := m.repo.Commit(ctx, m.repo.NewBatch().PutBookings(bookings)); err != nil {
		return queue.BookingEvent{}, err
	}
	m.stats.op("delete_booking")
	var slot model.Slot
	if i := indexSlot(snap.Slots, removed.SlotID); i >= 0 {
		slot = snap.Slots[i]
	}
	return m.bookingEvent(ctx, queue.BookingDeleted, removed, slot), nil
}

// Booking returns booking id.
func (m *Manager) Booking(ctx context.Context, id string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bookings, err := m.repo.Bookings(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	j := indexBooking(bookings, id)
	if j < 0 {
		return model.Booking{}, &model.NotFoundError{Kind: "booking", ID: id}
	}
	return bookings[j], nil
}

// BookingsBySlot returns the bookings of slotID ordered by creation.  An
// unknown slot yields an empty slice.
func (m *Manager) BookingsBySlot(ctx context.Context, slotID string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bookings, err := m.repo.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.DeleteFunc(bookings, func(b model.Booking) bool { return b.SlotID != slotID })
	slices.SortStableFunc(out, func(a, b model.Booking) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// Confirmation is a rendered confirmation message for one booking.
type Confirmation struct {
	Text      string `json:"text"`
	ShareLink string `json:"share_link"`
}

// Confirmation renders the operator's message template for booking id.
func (m *Manager) Confirmation(ctx context.Context, id string) (Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return Confirmation{}, err
	}
	j := indexBooking(snap.Bookings, id)
	if j < 0 {
		return Confirmation{}, &model.NotFoundError{Kind: "booking", ID: id}
	}
	b := snap.Bookings[j]
	i := indexSlot(snap.Slots, b.SlotID)
	if i < 0 {
		return Confirmation{}, &model.NotFoundError{Kind: "slot", ID: b.SlotID}
	}
	return m.confirmationFor(ctx, b, snap.Slots[i])
}

func (m *Manager) confirmationFor(ctx context.Context, b model.Booking, s model.Slot) (Confirmation, error) {
	tpl, err := m.prefs.Template(ctx)
	if err != nil {
		return Confirmation{}, err
	}
	text := message.Render(tpl, b, s, m.format)
	return Confirmation{Text: text, ShareLink: message.ShareLink(b.Phone, text)}, nil
}

// bookingEvent builds the event for a persisted booking write.  Failing to
// render the message only drops the message from the event.
func (m *Manager) bookingEvent(ctx context.Context, typ string, b model.Booking, s model.Slot) queue.BookingEvent {
	ev := queue.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		SlotID:     b.SlotID,
		SlotTitle:  s.Title,
		Name:       b.Name,
		Phone:      b.Phone,
		Count:      b.Count,
		Channel:    b.Channel,
		OccurredAt: m.now().UTC().Format(time.RFC3339),
	}
	if !s.StartsAt.IsZero() {
		ev.StartsAt = s.StartsAt.Format(time.RFC3339)
		ev.EndsAt = s.EndsAt.Format(time.RFC3339)
	}
	if typ != queue.BookingDeleted && s.ID != "" {
		if c, err := m.confirmationFor(ctx, b, s); err == nil {
			ev.Message = c.Text
			ev.ShareLink = c.ShareLink
		}
	}
	return ev
}

func indexBooking(bookings []model.Booking, id string) int {
	return slices.IndexFunc(bookings, func(b model.Booking) bool { return b.ID == id })
}
