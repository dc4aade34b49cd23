// Package queue defines booking event payloads and publishes them to
// RabbitMQ for downstream messaging relays.
package queue

// Event types carried in BookingEvent.Type.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"
)

// BookingEvent is published after a booking write was persisted.  It
// carries enough information for a consumer to send the confirmation
// message without reading the store.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	SlotID     string `json:"slot_id"`
	SlotTitle  string `json:"slot_title"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Count      int    `json:"count"`
	Channel    string `json:"channel"`
	Message    string `json:"message,omitempty"`
	ShareLink  string `json:"share_link,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
