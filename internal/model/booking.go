package model

import "time"

// DefaultSalutation is used when a booking carries no salutation.
const DefaultSalutation = "Liebe/r"

// Booking reserves Count seats of one Slot.
//
// Fields:
//  ID         – opaque unique identifier.
//  SlotID     – slot the seats belong to.  Deleting the slot deletes the
//               booking.
//  Salutation – greeting used in confirmation messages.
//  Name       – attendee name, required.
//  Phone      – attendee phone, required.
//  Notes      – optional free text.
//  Count      – number of seats (> 0).
//  Channel    – how the booking arrived (phone, instagram, ...).
//  CreatedAt  – set once on creation.
type Booking struct {
	ID         string    `json:"id"`
	SlotID     string    `json:"slotId"`
	Salutation string    `json:"salutation"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Notes      string    `json:"notes"`
	Count      int       `json:"count"`
	Channel    string    `json:"channel"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingPatch carries the fields of an EditBooking call.  Nil fields are
// left untouched; SlotID and CreatedAt cannot be changed.
type BookingPatch struct {
	Salutation *string `json:"salutation,omitempty"`
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Count      *int    `json:"count,omitempty"`
	Channel    *string `json:"channel,omitempty"`
}

// Apply returns a copy of b with the non-nil patch fields written over it.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.Salutation != nil {
		b.Salutation = *p.Salutation
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Count != nil {
		b.Count = *p.Count
	}
	if p.Channel != nil {
		b.Channel = *p.Channel
	}
	return b
}
