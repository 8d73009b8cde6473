package booking

import "errors"

// ErrBookingLimitExceeded is returned before any hold is placed when the
// participant's email already has the maximum number of bookings.
var ErrBookingLimitExceeded = errors.New("booking limit exceeded")

// ErrNoSlotsAvailable is returned when none of the candidate slots could
// be held.  Nothing was mutated, so no compensation is needed.
var ErrNoSlotsAvailable = errors.New("no slots available")

// ErrNoValidSlots is returned by the assignment engine when every held
// slot vanished between holding and assignment.
var ErrNoValidSlots = errors.New("no valid slots to assign")

// ErrSlotNoLongerAvailable is returned when the commit-time capacity
// re-check rejected the winning slot.
var ErrSlotNoLongerAvailable = errors.New("slot no longer available")

// ErrAssignmentFailed wraps any failure during the assignment step.  By
// the time it surfaces, every originally held slot has been released.
var ErrAssignmentFailed = errors.New("booking assignment failed")

// ErrInvalidRequest is returned when the candidate slot list is empty or
// exceeds the per-request maximum.
var ErrInvalidRequest = errors.New("invalid booking request")
