package booking

import (
	"context"
	"log"
	"time"
)

// HoldTTL is how long a soft hold blocks a slot before lapsing.  Expiry
// is enforced lazily at availability-evaluation time; an abandoned hold
// frees its slot without any sweep or explicit release.
const HoldTTL = 5 * time.Minute

// HoldResult reports the per-slot outcome of a batch hold attempt.
type HoldResult struct {
	Held   []uint64
	Failed []uint64
}

// Success reports whether at least one slot was held.  Callers decide
// whether partial success is enough to proceed.
func (r HoldResult) Success() bool { return len(r.Held) > 0 }

// HoldManager places and releases the temporary, expiring holds that keep
// concurrent candidates from being assigned the same slot.  The actual
// check-and-set runs in the store so it is serialized per slot row.
type HoldManager struct {
	slots SlotStore
	ttl   time.Duration
}

// NewHoldManager returns a HoldManager with the standard hold duration.
func NewHoldManager(slots SlotStore) *HoldManager {
	return &HoldManager{slots: slots, ttl: HoldTTL}
}

// PlaceHolds attempts to hold each listed slot for holder.  Slots are
// tried independently; one slot failing (taken, full, inactive, missing,
// or a storage error) never aborts the batch.  All holds placed by one
// call share a single expiry computed at entry.
func (m *HoldManager) PlaceHolds(ctx context.Context, slotIDs []uint64, holder string) HoldResult {
	res := HoldResult{
		Held:   make([]uint64, 0, len(slotIDs)),
		Failed: make([]uint64, 0, len(slotIDs)),
	}
	expiresAt := time.Now().UTC().Add(m.ttl)
	for _, id := range slotIDs {
		ok, err := m.slots.PlaceHold(ctx, id, holder, expiresAt)
		if err != nil {
			log.Printf("[hold] place hold on slot %d: %v", id, err)
			res.Failed = append(res.Failed, id)
			continue
		}
		if !ok {
			res.Failed = append(res.Failed, id)
			continue
		}
		res.Held = append(res.Held, id)
	}
	return res
}

// ReleaseHolds clears the hold fields on each listed slot.  It is
// idempotent best-effort cleanup: per-slot failures are logged and do not
// stop the remaining releases, since an unreleased hold still lapses on
// its own after HoldTTL.
func (m *HoldManager) ReleaseHolds(ctx context.Context, slotIDs []uint64) {
	for _, id := range slotIDs {
		if err := m.slots.ClearHold(ctx, id); err != nil {
			log.Printf("[hold] release hold on slot %d: %v", id, err)
		}
	}
}
