// Package booking implements the multi-slot hold-and-assign workflow: a
// participant selects up to three candidate slots, the system soft-holds
// all of them, then assigns the participant to the earliest held slot and
// releases the rest.  The package contains no SQL; it talks to storage
// through the small interfaces below, implemented by the repository layer
// in production and by in-memory fakes in tests.
package booking

import (
	"context"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// SlotStore is the slice of slot persistence the hold and assignment
// steps need.  Implementations must make PlaceHold an atomic per-slot
// check-and-set: of any number of concurrent callers racing for the same
// slot, at most one may observe it as available and acquire the hold.
type SlotStore interface {
	// SlotByID returns the current slot state, or (nil, nil) when no
	// slot with that id exists.
	SlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error)

	// PlaceHold atomically evaluates the availability predicate and, if
	// it passes for holder, writes the hold fields.  Returns whether the
	// hold was acquired.
	PlaceHold(ctx context.Context, id uint64, holder string, expiresAt time.Time) (bool, error)

	// ClearHold unconditionally clears the hold fields.  Idempotent.
	ClearHold(ctx context.Context, id uint64) error
}

// BookingStore is the slice of booking persistence the workflow needs.
type BookingStore interface {
	// CountByEmail returns the number of confirmed bookings for an email.
	CountByEmail(ctx context.Context, email string) (int, error)

	// CreateAssigned atomically inserts the booking, increments its
	// slot's counter and clears the slot's hold, re-checking capacity
	// inside the same atomic operation.  Returns false when the slot is
	// inactive or already full; the booking is then not created.
	CreateAssigned(ctx context.Context, b *model.Booking) (bool, error)
}

// Notifier receives the finalized booking for email dispatch.  Delivery
// is best-effort: the orchestrator invokes it after the booking has
// committed and ignores its error beyond logging.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *model.Booking, slot *model.TimeSlot) error
}
