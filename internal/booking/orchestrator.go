package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// MaxBookingsPerEmail is the global cap of confirmed bookings per
// participant email, independent of how many candidate slots a single
// request names.
const MaxBookingsPerEmail = 3

// MaxCandidateSlots bounds how many candidate slots one request may name.
const MaxCandidateSlots = 3

// notifyTimeout bounds the background notification dispatch, which runs
// detached from the request context after the booking has committed.
const notifyTimeout = 15 * time.Second

// Request carries the validated input of one booking attempt.  SlotIDs
// are the participant's candidate slots in no particular order.
type Request struct {
	SlotIDs    []uint64
	ParentName string
	ChildName  string
	ChildAge   int
	Email      string
	Phone      *string
	Notes      *string
}

// Orchestrator sequences one booking request end to end: limit check,
// hold placement, assignment, compensating release on failure, and the
// fire-and-forget confirmation notification.  It is the only component
// that decides compensation; the hold manager and assignment engine never
// retry internally.
type Orchestrator struct {
	holds    *HoldManager
	engine   *AssignmentEngine
	bookings BookingStore
	notifier Notifier
}

// NewOrchestrator constructs an Orchestrator.  notifier may be nil, in
// which case confirmations are not dispatched.
func NewOrchestrator(holds *HoldManager, engine *AssignmentEngine, bookings BookingStore, notifier Notifier) *Orchestrator {
	return &Orchestrator{holds: holds, engine: engine, bookings: bookings, notifier: notifier}
}

// CreateBooking runs the hold → assign → notify workflow for one request.
//
// Failure modes, in order of evaluation:
//   - ErrInvalidRequest: no candidate slots, or more than MaxCandidateSlots.
//   - ErrBookingLimitExceeded: the email already has MaxBookingsPerEmail
//     bookings.  Checked before any hold, so nothing needs releasing.
//   - ErrNoSlotsAvailable: every candidate failed to hold.
//   - ErrAssignmentFailed (wrapping the cause): the assignment step
//     failed after holds were placed.  All originally held slots are
//     released first — including the would-be winner, whose state after
//     a mid-commit failure must be treated as unknown.
//
// Notification errors never alter the outcome: the booking is committed
// by the time the notifier runs, and its failures are only logged.
func (o *Orchestrator) CreateBooking(ctx context.Context, req Request) (*Assignment, error) {
	ids := dedupe(req.SlotIDs)
	if len(ids) == 0 || len(ids) > MaxCandidateSlots {
		return nil, ErrInvalidRequest
	}

	count, err := o.bookings.CountByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("count bookings for %s: %w", req.Email, err)
	}
	if count >= MaxBookingsPerEmail {
		return nil, ErrBookingLimitExceeded
	}

	held := o.holds.PlaceHolds(ctx, ids, req.Email)
	if !held.Success() {
		return nil, ErrNoSlotsAvailable
	}

	b := &model.Booking{
		ParentName: req.ParentName,
		ChildName:  req.ChildName,
		ChildAge:   req.ChildAge,
		Email:      req.Email,
		Phone:      req.Phone,
		Notes:      req.Notes,
	}
	asg, err := o.engine.AssignEarliest(ctx, held.Held, b)
	if err != nil {
		o.holds.ReleaseHolds(ctx, held.Held)
		return nil, fmt.Errorf("%w: %v", ErrAssignmentFailed, err)
	}

	if o.notifier != nil {
		go o.notify(asg)
	}
	return asg, nil
}

// notify dispatches the confirmation on its own context so that a client
// disconnecting right after commit cannot cancel the email.
func (o *Orchestrator) notify(asg *Assignment) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := o.notifier.BookingConfirmed(ctx, asg.Booking, asg.Slot); err != nil {
		log.Printf("[booking] confirmation notify for booking %d: %v", asg.Booking.ID, err)
	}
}

// dedupe drops zero and duplicate ids while preserving input order.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
