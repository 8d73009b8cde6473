package model

import "time"

// Admin is a study coordinator who manages slots and reviews bookings.
// Admins authenticate with email and password; the password column stores
// a bcrypt hash.  An admin may optionally be scoped to a single location,
// in which case slot and booking listings are filtered to that site.
type Admin struct {
	ID        uint64    // admins.id
	Email     string    // admins.email (unique)
	Password  string    // admins.password (bcrypt hash)
	Name      string    // admins.name
	Location  *string   // admins.location (nullable)
	CreatedAt time.Time // admins.created_at
}
