// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// assigned to a slot.  It carries everything a downstream consumer needs
// to compose the participant and admin confirmation emails without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	SlotID     uint64 `json:"slot_id"`
	SlotTitle  string `json:"slot_title"`
	Location   string `json:"location"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	ParentName string `json:"parent_name"`
	ChildName  string `json:"child_name"`
	ChildAge   int    `json:"child_age"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Notes      string `json:"notes,omitempty"`
	AdminEmail string `json:"admin_email,omitempty"`
	BookedAt   string `json:"booked_at"`
}
