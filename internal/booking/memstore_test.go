package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// memStore is an in-memory SlotStore/BookingStore with the same
// check-and-set semantics the SQL repositories implement, guarded by a
// single mutex so concurrent tests exercise real contention.
type memStore struct {
	mu         sync.Mutex
	slots      map[uint64]*model.TimeSlot
	bookings   []*model.Booking
	nextID     uint64
	failCreate bool
}

func newMemStore(slots ...*model.TimeSlot) *memStore {
	m := &memStore{slots: make(map[uint64]*model.TimeSlot, len(slots))}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *memStore) SlotByID(_ context.Context, id uint64) (*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) PlaceHold(_ context.Context, id uint64, holder string, expiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return false, nil
	}
	if !s.AvailableTo(holder, time.Now()) {
		return false, nil
	}
	h := holder
	exp := expiresAt
	s.HoldBy = &h
	s.HoldExpiresAt = &exp
	return true, nil
}

func (m *memStore) ClearHold(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok {
		s.HoldBy = nil
		s.HoldExpiresAt = nil
	}
	return nil
}

func (m *memStore) CountByEmail(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.Email == email {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateAssigned(_ context.Context, b *model.Booking) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return false, errors.New("storage unavailable")
	}
	s, ok := m.slots[b.TimeSlotID]
	if !ok || !s.IsActive || s.CurrentBookings >= s.MaxBookings {
		return false, nil
	}
	s.CurrentBookings++
	s.HoldBy = nil
	s.HoldExpiresAt = nil
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	cp := *b
	m.bookings = append(m.bookings, &cp)
	return true, nil
}

// slot returns a copy of the stored slot for assertions.
func (m *memStore) slot(id uint64) model.TimeSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.slots[id]
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

// testSlot builds an active slot with the given capacity and usage.
func testSlot(id uint64, startsAt time.Time, max, current uint32) *model.TimeSlot {
	return &model.TimeSlot{
		ID:              id,
		Title:           "Study session",
		Location:        "IWM",
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(45 * time.Minute),
		MaxBookings:     max,
		CurrentBookings: current,
		IsActive:        true,
	}
}
