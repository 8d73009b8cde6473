package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestPlaceHoldsHoldsAllFreeSlots(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(
		testSlot(1, base, 2, 0),
		testSlot(2, base.Add(time.Hour), 2, 0),
		testSlot(3, base.Add(2*time.Hour), 2, 0),
	)
	m := NewHoldManager(store)

	res := m.PlaceHolds(context.Background(), []uint64{1, 2, 3}, "parent@example.com")
	if !res.Success() {
		t.Fatal("expected at least one hold")
	}
	if len(res.Held) != 3 || len(res.Failed) != 0 {
		t.Fatalf("held=%v failed=%v, want all three held", res.Held, res.Failed)
	}
	for _, id := range []uint64{1, 2, 3} {
		s := store.slot(id)
		if s.HoldBy == nil || *s.HoldBy != "parent@example.com" {
			t.Errorf("slot %d: hold_by = %v, want parent@example.com", id, s.HoldBy)
		}
		if s.HoldExpiresAt == nil || !s.HoldExpiresAt.After(time.Now()) {
			t.Errorf("slot %d: expiry %v not in the future", id, s.HoldExpiresAt)
		}
	}
}

func TestPlaceHoldsPartialFailureDoesNotAbortBatch(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	full := testSlot(2, base.Add(time.Hour), 1, 1)
	store := newMemStore(testSlot(1, base, 1, 0), full)
	m := NewHoldManager(store)

	res := m.PlaceHolds(context.Background(), []uint64{2, 1, 99}, "parent@example.com")
	if len(res.Held) != 1 || res.Held[0] != 1 {
		t.Fatalf("held=%v, want [1]", res.Held)
	}
	if len(res.Failed) != 2 {
		t.Fatalf("failed=%v, want full slot and missing slot", res.Failed)
	}
}

func TestPlaceHoldsSameHolderReacquires(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	m := NewHoldManager(store)
	ctx := context.Background()

	if res := m.PlaceHolds(ctx, []uint64{1}, "parent@example.com"); len(res.Held) != 1 {
		t.Fatalf("first hold failed: %v", res.Failed)
	}
	// Same participant retrying extends their own hold instead of
	// colliding with it.
	if res := m.PlaceHolds(ctx, []uint64{1}, "parent@example.com"); len(res.Held) != 1 {
		t.Fatalf("re-hold by the same holder failed: %v", res.Failed)
	}
	// A different participant is blocked while the hold is live.
	if res := m.PlaceHolds(ctx, []uint64{1}, "other@example.com"); len(res.Held) != 0 {
		t.Fatal("foreign hold succeeded while slot was held")
	}
}

func TestPlaceHoldsExpiredHoldIsTakeable(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	slot := testSlot(1, base, 1, 0)
	holder := "slow@example.com"
	expired := time.Now().UTC().Add(-time.Second)
	slot.HoldBy = &holder
	slot.HoldExpiresAt = &expired
	store := newMemStore(slot)
	m := NewHoldManager(store)

	res := m.PlaceHolds(context.Background(), []uint64{1}, "fast@example.com")
	if len(res.Held) != 1 {
		t.Fatalf("expired hold not reclaimed: failed=%v", res.Failed)
	}
	s := store.slot(1)
	if s.HoldBy == nil || *s.HoldBy != "fast@example.com" {
		t.Fatalf("hold_by = %v, want fast@example.com", s.HoldBy)
	}
}

func TestReleaseHoldsIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	m := NewHoldManager(store)
	ctx := context.Background()

	m.PlaceHolds(ctx, []uint64{1}, "parent@example.com")
	m.ReleaseHolds(ctx, []uint64{1})
	m.ReleaseHolds(ctx, []uint64{1, 42}) // repeat plus unknown id

	s := store.slot(1)
	if s.HoldBy != nil || s.HoldExpiresAt != nil {
		t.Fatalf("hold not cleared: %+v", s)
	}
}

func TestConcurrentHoldsSingleWinner(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMemStore(testSlot(1, base, 1, 0))
	m := NewHoldManager(store)
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan string, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(h string) {
			defer wg.Done()
			if res := m.PlaceHolds(ctx, []uint64{1}, h); res.Success() {
				wins <- h
			}
		}(fmt.Sprintf("parent%d@example.com", i))
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("got %d winners (%v), want exactly 1", len(winners), winners)
	}
	s := store.slot(1)
	if s.HoldBy == nil || *s.HoldBy != winners[0] {
		t.Fatalf("hold_by = %v, want %s", s.HoldBy, winners[0])
	}
}
