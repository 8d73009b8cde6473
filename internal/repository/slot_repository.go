package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/kidlab/study-booking/internal/model"
)

// SlotRepo provides data access to the time_slots table.  Besides plain
// CRUD for admins it implements the two conditional writes the booking
// workflow depends on: PlaceHold and the hold clearing performed on
// release.  All timestamps are stored and compared in UTC.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the provided database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, title, description, location, starts_at, ends_at,
	max_bookings, current_bookings, is_active, hold_by, hold_expires_at,
	created_by, created_at, updated_at`

// scanSlot reads one time_slots row into a model.TimeSlot, converting the
// nullable columns to pointers.
func scanSlot(row interface{ Scan(...interface{}) error }) (*model.TimeSlot, error) {
	var s model.TimeSlot
	var desc, holdBy sql.NullString
	var holdExp sql.NullTime
	var active int
	if err := row.Scan(
		&s.ID, &s.Title, &desc, &s.Location, &s.StartsAt, &s.EndsAt,
		&s.MaxBookings, &s.CurrentBookings, &active, &holdBy, &holdExp,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.IsActive = active == 1
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	if holdBy.Valid {
		h := holdBy.String
		s.HoldBy = &h
	}
	if holdExp.Valid {
		t := holdExp.Time.UTC()
		s.HoldExpiresAt = &t
	}
	return &s, nil
}

// Create inserts a new time slot and assigns the generated ID back to the
// struct.  Defaults (counter, active flag, timestamps) are read back from
// the freshly inserted row.
func (r *SlotRepo) Create(ctx context.Context, s *model.TimeSlot) error {
	const q = `INSERT INTO time_slots (title, description, location, starts_at, ends_at, max_bookings, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.Title, s.Description, s.Location,
		s.StartsAt.UTC(), s.EndsAt.UTC(), s.MaxBookings, s.CreatedBy,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByID retrieves a slot by its ID.  It returns ErrSlotNotFound if there
// is no matching row.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ?`
	s, err := scanSlot(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// SlotByID adapts GetByID to the contract of the booking core's SlotStore:
// a missing slot is reported as (nil, nil) rather than an error, since the
// hold and assignment steps simply skip slots that no longer exist.
func (r *SlotRepo) SlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	s, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, nil
	}
	return s, err
}

// ListActive returns all active slots, optionally restricted to one
// location, ordered by start time.  Inactive slots are excluded here and
// never shown to participants.
func (r *SlotRepo) ListActive(ctx context.Context, location string) ([]model.TimeSlot, error) {
	q := `SELECT ` + slotColumns + ` FROM time_slots WHERE is_active = 1`
	args := []interface{}{}
	if location != "" {
		q += ` AND location = ?`
		args = append(args, location)
	}
	q += ` ORDER BY starts_at`
	return r.list(ctx, q, args...)
}

// ListAll returns every slot regardless of active flag, optionally
// restricted to one location, ordered by start time.  Used by admins.
func (r *SlotRepo) ListAll(ctx context.Context, location string) ([]model.TimeSlot, error) {
	q := `SELECT ` + slotColumns + ` FROM time_slots`
	args := []interface{}{}
	if location != "" {
		q += ` WHERE location = ?`
		args = append(args, location)
	}
	q += ` ORDER BY starts_at`
	return r.list(ctx, q, args...)
}

func (r *SlotRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// SlotUpdate lists the fields an admin may change on a slot.  Nil fields
// are left untouched.
type SlotUpdate struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	MaxBookings *uint32
	IsActive    *bool
}

// Update applies a partial update to a slot.  It returns ErrSlotNotFound
// when the slot does not exist and ErrNoChange when no fields were given.
// Capacity and the active flag are admin-owned; the booking counter and
// hold fields are never modified here.
func (r *SlotRepo) Update(ctx context.Context, id uint64, u SlotUpdate) error {
	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *u.Location)
	}
	if u.StartsAt != nil {
		sets = append(sets, "starts_at = ?")
		args = append(args, u.StartsAt.UTC())
	}
	if u.EndsAt != nil {
		sets = append(sets, "ends_at = ?")
		args = append(args, u.EndsAt.UTC())
	}
	if u.MaxBookings != nil {
		// Never let capacity drop below the confirmed booking count;
		// shrinking stops new bookings without stranding existing ones.
		sets = append(sets, "max_bookings = GREATEST(?, current_bookings)")
		args = append(args, *u.MaxBookings)
	}
	if u.IsActive != nil {
		active := 0
		if *u.IsActive {
			active = 1
		}
		sets = append(sets, "is_active = ?")
		args = append(args, active)
	}
	if len(sets) == 0 {
		return ErrNoChange
	}
	args = append(args, id)
	q := `UPDATE time_slots SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// The connection runs with clientFoundRows, so zero means no row
	// matched the id, not that the values were already in place.
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Delete removes a slot.  Bookings referencing the slot are removed by the
// ON DELETE CASCADE on bookings.time_slot_id.  Returns ErrSlotNotFound
// when no row was deleted.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// PlaceHold attempts to acquire the hold on a slot for the given holder.
// The availability predicate is evaluated inside a single conditional
// UPDATE so that two concurrent callers racing for the same slot cannot
// both succeed: MySQL serializes the row write, and exactly one statement
// observes the slot as available.  An expired hold, or a hold already
// owned by the same holder, does not block re-acquisition.  The returned
// bool reports whether the hold was placed.
func (r *SlotRepo) PlaceHold(ctx context.Context, id uint64, holder string, expiresAt time.Time) (bool, error) {
	const q = `UPDATE time_slots
	           SET hold_by = ?, hold_expires_at = ?
	           WHERE id = ?
	             AND is_active = 1
	             AND current_bookings < max_bookings
	             AND (hold_by IS NULL OR hold_expires_at <= UTC_TIMESTAMP() OR hold_by = ?)`
	res, err := r.db.ExecContext(ctx, q, holder, expiresAt.UTC(), id, holder)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearHold unconditionally clears the hold fields on a slot.  It is
// idempotent and succeeds even when the slot carries no hold; a missing
// slot is not an error since release is best-effort cleanup.
func (r *SlotRepo) ClearHold(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE time_slots SET hold_by = NULL, hold_expires_at = NULL WHERE id = ?`, id)
	return err
}
