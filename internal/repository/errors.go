// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL errors directly.
package repository

import "errors"

// ErrSlotNotFound indicates that a time slot was not located in the DB.
var ErrSlotNotFound = errors.New("time slot not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAdminNotFound indicates that no admin exists for the given email or id.
var ErrAdminNotFound = errors.New("admin not found")

// ErrNoChange indicates an UPDATE matched a row but had nothing to modify.
var ErrNoChange = errors.New("no change")
