package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// BookingRepo provides data access to the bookings table.  Every write
// that touches a booking also adjusts its slot's current_bookings counter,
// and the two statements always run inside one transaction so the
// invariant "counter == number of booking rows per slot" holds under
// concurrency.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CountByEmail returns the number of confirmed bookings for an email.
// Used to enforce the per-participant booking cap before placing holds.
func (r *BookingRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_email = ?`, email).Scan(&n)
	return n, err
}

// CreateAssigned converts a hold into a confirmed booking.  Inside one
// transaction it conditionally increments the winning slot's counter
// (re-checking capacity and the active flag as a guard against a hold
// that was bypassed or went stale) and clears the hold fields, then
// inserts the booking row.  When the conditional update matches no row
// the transaction is rolled back and (false, nil) is returned; the caller
// treats the slot as no longer available.  On success b.ID and
// b.CreatedAt are populated.
func (r *BookingRepo) CreateAssigned(ctx context.Context, b *model.Booking) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const claim = `UPDATE time_slots
	               SET current_bookings = current_bookings + 1,
	                   hold_by = NULL, hold_expires_at = NULL
	               WHERE id = ? AND is_active = 1 AND current_bookings < max_bookings`
	res, err := tx.ExecContext(ctx, claim, b.TimeSlotID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	const ins = `INSERT INTO bookings (time_slot_id, parent_name, child_name, child_age, user_email, user_phone, notes)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	ires, err := tx.ExecContext(ctx, ins,
		b.TimeSlotID, b.ParentName, b.ChildName, b.ChildAge, b.Email, b.Phone, b.Notes)
	if err != nil {
		return false, err
	}
	id, err := ires.LastInsertId()
	if err != nil {
		return false, err
	}
	b.ID = uint64(id)
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

// Delete removes a booking and decrements its slot's counter in the same
// transaction.  The decrement is floored at zero by its WHERE clause so a
// drifted counter can never wrap below zero.  Returns ErrBookingNotFound
// when the booking does not exist.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var slotID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT time_slot_id FROM bookings WHERE id = ?`, id).Scan(&slotID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id); err != nil {
		return err
	}
	const dec = `UPDATE time_slots SET current_bookings = current_bookings - 1
	             WHERE id = ? AND current_bookings > 0`
	if _, err := tx.ExecContext(ctx, dec, slotID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ClearBySlot removes all bookings for a slot and resets its counter to
// zero, regardless of the counter's prior value.  Returns the number of
// bookings removed.
func (r *BookingRepo) ClearBySlot(ctx context.Context, slotID uint64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE time_slot_id = ?`, slotID)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET current_bookings = 0 WHERE id = ?`, slotID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return removed, nil
}

// BookingDetail joins a booking with its slot for admin listings.
type BookingDetail struct {
	ID         uint64  `json:"id"`
	TimeSlotID uint64  `json:"time_slot_id"`
	ParentName string  `json:"parent_name"`
	ChildName  string  `json:"child_name"`
	ChildAge   int     `json:"child_age"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
	SlotTitle  string  `json:"slot_title"`
	Location   string  `json:"location"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
}

const bookingDetailQuery = `SELECT b.id, b.time_slot_id, b.parent_name, b.child_name, b.child_age,
	       b.user_email, b.user_phone, b.notes, b.created_at,
	       s.title, s.location, s.starts_at, s.ends_at
	FROM bookings b
	JOIN time_slots s ON s.id = b.time_slot_id`

// ListAll returns every booking joined with its slot, optionally filtered
// to one location, newest first.
func (r *BookingRepo) ListAll(ctx context.Context, location string) ([]BookingDetail, error) {
	q := bookingDetailQuery
	args := []interface{}{}
	if location != "" {
		q += ` WHERE s.location = ?`
		args = append(args, location)
	}
	q += ` ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, args...)
}

// ListBySlot returns all bookings for one slot, oldest first.
func (r *BookingRepo) ListBySlot(ctx context.Context, slotID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.time_slot_id = ? ORDER BY b.created_at`
	return r.listDetails(ctx, q, slotID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var phone, notes sql.NullString
		var createdAt, startsAt, endsAt sql.NullTime
		if err := rows.Scan(
			&d.ID, &d.TimeSlotID, &d.ParentName, &d.ChildName, &d.ChildAge,
			&d.Email, &phone, &notes, &createdAt,
			&d.SlotTitle, &d.Location, &startsAt, &endsAt,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			d.Phone = &p
		}
		if notes.Valid {
			n := notes.String
			d.Notes = &n
		}
		if createdAt.Valid {
			d.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
		}
		if startsAt.Valid {
			d.StartsAt = startsAt.Time.UTC().Format(time.RFC3339)
		}
		if endsAt.Valid {
			d.EndsAt = endsAt.Time.UTC().Format(time.RFC3339)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
