package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kidlab/study-booking/internal/model"
)

// AdminRepo provides data access to the admins table.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

const adminColumns = `id, email, password, name, location, created_at`

func scanAdmin(row interface{ Scan(...interface{}) error }) (*model.Admin, error) {
	var a model.Admin
	var loc sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Name, &loc, &a.CreatedAt); err != nil {
		return nil, err
	}
	if loc.Valid {
		l := loc.String
		a.Location = &l
	}
	return &a, nil
}

// GetByEmail returns the admin with the given email or ErrAdminNotFound.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE email = ?`
	a, err := scanAdmin(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	return a, err
}

// GetByID returns the admin with the given id or ErrAdminNotFound.  Used
// by admin handlers to resolve the caller's location scope from the JWT
// subject.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE id = ?`
	a, err := scanAdmin(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	return a, err
}

// Create inserts a new admin and assigns the generated ID.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	const q = `INSERT INTO admins (email, password, name, location) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Email, a.Password, a.Name, a.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// Count returns the number of admin accounts.  Used by the startup seeding
// step, which only creates the bootstrap admin on an empty table.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}
