package model

import "time"

// TimeSlot represents a bookable appointment window at one of the study
// locations.  Capacity is tracked with a denormalized counter that is only
// ever changed inside the same database transaction as the booking row it
// accounts for.  The hold fields implement a soft, expiring reservation:
// while HoldBy is set and HoldExpiresAt lies in the future, the slot is
// reserved for that participant and unavailable to everyone else.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – short label shown in the calendar.
//  Description     – optional free-text details (nullable).
//  Location        – study site, e.g. "Saarland" or "IWM".
//  StartsAt        – when the appointment begins (UTC).
//  EndsAt          – when the appointment ends (UTC).
//  MaxBookings     – capacity of the slot, at least 1.
//  CurrentBookings – confirmed bookings counted against capacity.
//  IsActive        – inactive slots are hidden and cannot be booked.
//  HoldBy          – email of the participant currently holding the slot.
//  HoldExpiresAt   – when the hold lapses; both nil when unheld.
//  CreatedBy       – admin who created the slot.
type TimeSlot struct {
	ID              uint64     // time_slots.id
	Title           string     // time_slots.title
	Description     *string    // time_slots.description (nullable)
	Location        string     // time_slots.location
	StartsAt        time.Time  // time_slots.starts_at
	EndsAt          time.Time  // time_slots.ends_at
	MaxBookings     uint32     // time_slots.max_bookings
	CurrentBookings uint32     // time_slots.current_bookings
	IsActive        bool       // time_slots.is_active
	HoldBy          *string    // time_slots.hold_by (nullable)
	HoldExpiresAt   *time.Time // time_slots.hold_expires_at (nullable)
	CreatedBy       uint64     // time_slots.created_by
	CreatedAt       time.Time  // time_slots.created_at
	UpdatedAt       time.Time  // time_slots.updated_at
}

// AvailableTo reports whether the slot can be held or booked by holder at
// the given instant.  A slot is available when it is active, under
// capacity, and either unheld, held by the same holder, or carrying an
// expired hold.  An expired hold counts as no hold at all; there is no
// background sweep.
func (s *TimeSlot) AvailableTo(holder string, now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.CurrentBookings >= s.MaxBookings {
		return false
	}
	if s.HoldBy == nil || s.HoldExpiresAt == nil {
		return true
	}
	if *s.HoldBy == holder {
		return true
	}
	return !s.HoldExpiresAt.After(now)
}
