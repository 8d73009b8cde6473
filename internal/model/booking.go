package model

import "time"

// Booking is a confirmed reservation linking one participant family to
// exactly one time slot.  Each booking contributes exactly one unit to its
// slot's CurrentBookings counter; the two are created and removed in the
// same transaction so the accounting never drifts.
//
// Fields:
//  ID         – primary key identifier.
//  TimeSlotID – the slot this booking occupies.
//  ParentName – name of the accompanying parent.
//  ChildName  – name of the participating child.
//  ChildAge   – age of the child in years (1–18).
//  Email      – contact email, also the identity used for the per-person
//               booking limit and for holds.
//  Phone      – optional contact phone.
//  Notes      – optional free-text notes from the participant.
type Booking struct {
	ID         uint64    // bookings.id
	TimeSlotID uint64    // bookings.time_slot_id
	ParentName string    // bookings.parent_name
	ChildName  string    // bookings.child_name
	ChildAge   int       // bookings.child_age
	Email      string    // bookings.user_email
	Phone      *string   // bookings.user_phone (nullable)
	Notes      *string   // bookings.notes (nullable)
	CreatedAt  time.Time // bookings.created_at
}
