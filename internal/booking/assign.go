package booking

import (
	"context"
	"sort"

	"github.com/kidlab/study-booking/internal/model"
)

// Assignment is the outcome of a successful hold conversion: the created
// booking plus a snapshot of the winning slot taken before the counter
// increment, for use in confirmations and notifications.
type Assignment struct {
	Slot    *model.TimeSlot
	Booking *model.Booking
}

// AssignmentEngine converts a set of held slots into exactly one
// confirmed booking, deterministically picking the earliest-starting
// slot, and returns the losers to general availability.
type AssignmentEngine struct {
	slots    SlotStore
	bookings BookingStore
	holds    *HoldManager
}

// NewAssignmentEngine constructs an AssignmentEngine.
func NewAssignmentEngine(slots SlotStore, bookings BookingStore, holds *HoldManager) *AssignmentEngine {
	return &AssignmentEngine{slots: slots, bookings: bookings, holds: holds}
}

// AssignEarliest picks the winner among the held slots and books it.
// Held slots that no longer exist are dropped; if none remain it fails
// with ErrNoValidSlots.  Candidates are ordered by start time ascending
// with the lower id winning ties, so the choice is deterministic for any
// input order.  The conversion itself (booking row, counter increment,
// hold clear, commit-time capacity re-check) is a single atomic store
// operation; if the re-check rejects the winner the call fails with
// ErrSlotNoLongerAvailable.  On success, holds on all losing slots are
// released before returning.
func (e *AssignmentEngine) AssignEarliest(ctx context.Context, heldSlotIDs []uint64, b *model.Booking) (*Assignment, error) {
	candidates := make([]*model.TimeSlot, 0, len(heldSlotIDs))
	for _, id := range heldSlotIDs {
		s, err := e.slots.SlotByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoValidSlots
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].StartsAt.Equal(candidates[j].StartsAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].StartsAt.Before(candidates[j].StartsAt)
	})
	winner := candidates[0]

	b.TimeSlotID = winner.ID
	ok, err := e.bookings.CreateAssigned(ctx, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotNoLongerAvailable
	}

	losers := make([]uint64, 0, len(heldSlotIDs))
	for _, id := range heldSlotIDs {
		if id != winner.ID {
			losers = append(losers, id)
		}
	}
	e.holds.ReleaseHolds(ctx, losers)

	return &Assignment{Slot: winner, Booking: b}, nil
}
