package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// chanNotifier records confirmations on a channel so tests can wait for
// the background dispatch.
type chanNotifier struct {
	events chan *model.Booking
	fail   bool
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{events: make(chan *model.Booking, 8)}
}

func (n *chanNotifier) BookingConfirmed(_ context.Context, b *model.Booking, _ *model.TimeSlot) error {
	if n.fail {
		return errors.New("broker down")
	}
	n.events <- b
	return nil
}

func newTestOrchestrator(store *memStore, notifier Notifier) *Orchestrator {
	holds := NewHoldManager(store)
	engine := NewAssignmentEngine(store, store, holds)
	return NewOrchestrator(holds, engine, store, notifier)
}

func validRequest(slotIDs ...uint64) Request {
	return Request{
		SlotIDs:    slotIDs,
		ParentName: "Dana Weber",
		ChildName:  "Mia",
		ChildAge:   6,
		Email:      "dana@example.com",
	}
}

func TestCreateBookingAssignsEarliestAndReleasesRest(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(
		testSlot(1, base.Add(2*time.Hour), 1, 0),
		testSlot(2, base, 1, 0),
		testSlot(3, base.Add(time.Hour), 1, 0),
	)
	o := newTestOrchestrator(store, nil)

	asg, err := o.CreateBooking(context.Background(), validRequest(1, 2, 3))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if asg.Slot.ID != 2 {
		t.Fatalf("assigned slot %d, want earliest-starting slot 2", asg.Slot.ID)
	}
	if got := store.slot(2).CurrentBookings; got != 1 {
		t.Errorf("winner counter = %d, want 1", got)
	}
	for _, id := range []uint64{1, 3} {
		s := store.slot(id)
		if s.CurrentBookings != 0 || s.HoldBy != nil {
			t.Errorf("loser %d not released: %+v", id, s)
		}
	}
}

func TestCreateBookingDedupesCandidates(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 2, 0))
	o := newTestOrchestrator(store, nil)

	// Duplicates and zero ids collapse to one candidate.
	asg, err := o.CreateBooking(context.Background(), validRequest(1, 1, 0, 1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if asg.Slot.ID != 1 || store.bookingCount() != 1 {
		t.Fatalf("want single booking on slot 1, got slot %d with %d bookings", asg.Slot.ID, store.bookingCount())
	}
}

func TestCreateBookingRejectsInvalidRequests(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	o := newTestOrchestrator(store, nil)
	ctx := context.Background()

	if _, err := o.CreateBooking(ctx, validRequest()); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty candidates: err = %v, want ErrInvalidRequest", err)
	}
	if _, err := o.CreateBooking(ctx, validRequest(1, 2, 3, 4)); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("four candidates: err = %v, want ErrInvalidRequest", err)
	}
}

func TestCreateBookingEnforcesEmailLimit(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	slots := make([]*model.TimeSlot, 0, MaxBookingsPerEmail+1)
	for i := 0; i <= MaxBookingsPerEmail; i++ {
		slots = append(slots, testSlot(uint64(i+1), base.Add(time.Duration(i)*time.Hour), 1, 0))
	}
	store := newMemStore(slots...)
	o := newTestOrchestrator(store, nil)
	ctx := context.Background()

	for i := 0; i < MaxBookingsPerEmail; i++ {
		if _, err := o.CreateBooking(ctx, validRequest(uint64(i+1))); err != nil {
			t.Fatalf("booking %d: %v", i+1, err)
		}
	}
	_, err := o.CreateBooking(ctx, validRequest(uint64(MaxBookingsPerEmail+1)))
	if !errors.Is(err, ErrBookingLimitExceeded) {
		t.Fatalf("err = %v, want ErrBookingLimitExceeded after %d bookings", err, MaxBookingsPerEmail)
	}
	// A different email is unaffected.
	other := validRequest(uint64(MaxBookingsPerEmail + 1))
	other.Email = "other@example.com"
	if _, err := o.CreateBooking(ctx, other); err != nil {
		t.Fatalf("other email blocked: %v", err)
	}
}

func TestCreateBookingNoSlotsAvailable(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(
		testSlot(1, base, 1, 1),
		testSlot(2, base.Add(time.Hour), 1, 1),
	)
	o := newTestOrchestrator(store, nil)

	_, err := o.CreateBooking(context.Background(), validRequest(1, 2))
	if !errors.Is(err, ErrNoSlotsAvailable) {
		t.Fatalf("err = %v, want ErrNoSlotsAvailable", err)
	}
}

func TestCreateBookingCompensatesOnAssignmentFailure(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(
		testSlot(1, base, 1, 0),
		testSlot(2, base.Add(time.Hour), 1, 0),
	)
	store.failCreate = true
	o := newTestOrchestrator(store, nil)

	_, err := o.CreateBooking(context.Background(), validRequest(1, 2))
	if !errors.Is(err, ErrAssignmentFailed) {
		t.Fatalf("err = %v, want ErrAssignmentFailed", err)
	}
	if store.bookingCount() != 0 {
		t.Error("booking persisted despite failed assignment")
	}
	for _, id := range []uint64{1, 2} {
		s := store.slot(id)
		if s.HoldBy != nil || s.HoldExpiresAt != nil {
			t.Errorf("slot %d hold not released after failure", id)
		}
		if s.CurrentBookings != 0 {
			t.Errorf("slot %d counter = %d, want 0", id, s.CurrentBookings)
		}
	}
}

func TestCreateBookingNotifiesInBackground(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	n := newChanNotifier()
	o := newTestOrchestrator(store, n)

	asg, err := o.CreateBooking(context.Background(), validRequest(1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	select {
	case got := <-n.events:
		if got.ID != asg.Booking.ID {
			t.Fatalf("notified booking %d, want %d", got.ID, asg.Booking.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmation dispatched")
	}
}

func TestCreateBookingSucceedsWhenNotifierFails(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	n := newChanNotifier()
	n.fail = true
	o := newTestOrchestrator(store, n)

	asg, err := o.CreateBooking(context.Background(), validRequest(1))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if asg.Booking.ID == 0 || store.bookingCount() != 1 {
		t.Fatal("booking not committed")
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	o := newTestOrchestrator(store, nil)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest(1)
			req.Email = fmt.Sprintf("parent%d@example.com", i)
			if _, err := o.CreateBooking(ctx, req); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("%d bookings succeeded for a capacity-1 slot, want 1", successes)
	}
	if got := store.slot(1).CurrentBookings; got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if store.bookingCount() != 1 {
		t.Fatalf("%d booking rows, want 1", store.bookingCount())
	}
}
