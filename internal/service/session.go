package service

import (
	"context"

	"github.com/NextStepSol/workshop-app/internal/model"
)

// EditSession identifies what a booking form is editing.  It is handed to
// the client when a form opens and comes back with the submit, so two
// open forms never share state.  An empty BookingID means a new booking.
type EditSession struct {
	SlotID    string `json:"slot_id"`
	BookingID string `json:"booking_id,omitempty"`
}

// IsNew reports whether the session creates a booking.
func (s EditSession) IsNew() bool { return s.BookingID == "" }

// BookingForm holds every field of the booking form.  On submit all of
// them overwrite the edited booking.
type BookingForm struct {
	Salutation string `json:"salutation"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Notes      string `json:"notes"`
	Count      int    `json:"count"`
	Channel    string `json:"channel"`
}

// OpenBookingSession starts a new-booking session for slotID.
func (m *Manager) OpenBookingSession(ctx context.Context, slotID string) (EditSession, error) {
	if _, err := m.Slot(ctx, slotID); err != nil {
		return EditSession{}, err
	}
	return EditSession{SlotID: slotID}, nil
}

// EditBookingSession starts a session editing booking id and returns the
// booking to prefill the form with.
func (m *Manager) EditBookingSession(ctx context.Context, id string) (EditSession, model.Booking, error) {
	b, err := m.Booking(ctx, id)
	if err != nil {
		return EditSession{}, model.Booking{}, err
	}
	return EditSession{SlotID: b.SlotID, BookingID: b.ID}, b, nil
}

// SubmitBooking saves form within sess: a new session creates a booking,
// an edit session overwrites its booking.  The returned session points at
// the saved booking, so a second submit edits instead of duplicating.
func (m *Manager) SubmitBooking(ctx context.Context, sess EditSession, form BookingForm) (model.Booking, EditSession, error) {
	if sess.SlotID == "" {
		return model.Booking{}, sess, model.Invalid("session", "has no slot")
	}
	if sess.IsNew() {
		b, err := m.CreateBooking(ctx, BookingInput{
			SlotID:     sess.SlotID,
			Salutation: form.Salutation,
			Name:       form.Name,
			Phone:      form.Phone,
			Notes:      form.Notes,
			Count:      form.Count,
			Channel:    form.Channel,
		})
		if err != nil {
			return model.Booking{}, sess, err
		}
		return b, EditSession{SlotID: b.SlotID, BookingID: b.ID}, nil
	}

	current, err := m.Booking(ctx, sess.BookingID)
	if err != nil {
		return model.Booking{}, sess, err
	}
	if current.SlotID != sess.SlotID {
		return model.Booking{}, sess, model.Invalid("session", "does not match the booking's slot")
	}
	b, err := m.EditBooking(ctx, sess.BookingID, model.BookingPatch{
		Salutation: &form.Salutation,
		Name:       &form.Name,
		Phone:      &form.Phone,
		Notes:      &form.Notes,
		Count:      &form.Count,
		Channel:    &form.Channel,
	})
	if err != nil {
		return model.Booking{}, sess, err
	}
	return b, sess, nil
}

// DeleteSessionBooking deletes the booking an edit session points at.
func (m *Manager) DeleteSessionBooking(ctx context.Context, sess EditSession) error {
	if sess.IsNew() {
		return model.Invalid("session", "has no booking to delete")
	}
	return m.DeleteBooking(ctx, sess.BookingID)
}
