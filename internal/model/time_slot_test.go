package model

import (
	"testing"
	"time"
)

func TestAvailableTo(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	holder := "parent@example.com"
	future := now.Add(5 * time.Minute)
	past := now.Add(-time.Minute)

	base := TimeSlot{MaxBookings: 2, CurrentBookings: 0, IsActive: true}

	cases := []struct {
		name   string
		mutate func(*TimeSlot)
		asked  string
		want   bool
	}{
		{"free slot", func(s *TimeSlot) {}, holder, true},
		{"inactive", func(s *TimeSlot) { s.IsActive = false }, holder, false},
		{"full", func(s *TimeSlot) { s.CurrentBookings = 2 }, holder, false},
		{"held by other", func(s *TimeSlot) { s.HoldBy = &holder; s.HoldExpiresAt = &future }, "other@example.com", false},
		{"held by self", func(s *TimeSlot) { s.HoldBy = &holder; s.HoldExpiresAt = &future }, holder, true},
		{"hold expired", func(s *TimeSlot) { s.HoldBy = &holder; s.HoldExpiresAt = &past }, "other@example.com", true},
		{"hold expiring exactly now", func(s *TimeSlot) { s.HoldBy = &holder; s.HoldExpiresAt = &now }, "other@example.com", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			if got := s.AvailableTo(tc.asked, now); got != tc.want {
				t.Errorf("AvailableTo(%q) = %v, want %v", tc.asked, got, tc.want)
			}
		})
	}
}
