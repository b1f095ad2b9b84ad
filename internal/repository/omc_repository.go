package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// OMCRepo provides data access to the omcs table.
type OMCRepo struct{ DB *sql.DB }

// NewOMCRepo returns a new OMCRepo bound to the given database.
func NewOMCRepo(db *sql.DB) *OMCRepo { return &OMCRepo{DB: db} }

const omcColumns = `id, name, location, logo, contact_person, contact, email,
       deleted_at, created_at, updated_at`

func scanOMC(row interface{ Scan(...interface{}) error }) (model.OMC, error) {
	var (
		o       model.OMC
		deleted sql.NullTime
	)
	err := row.Scan(&o.ID, &o.Name, &o.Location, &o.Logo, &o.ContactPerson,
		&o.Contact, &o.Email, &deleted, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.OMC{}, err
	}
	if deleted.Valid {
		t := deleted.Time
		o.DeletedAt = &t
	}
	return o, nil
}

// Create inserts a new OMC and returns its ID.
func (r *OMCRepo) Create(ctx context.Context, o *model.OMC) (uint64, error) {
	const q = `INSERT INTO omcs (name, location, logo, contact_person, contact, email)
               VALUES (?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, o.Name, o.Location, o.Logo,
		o.ContactPerson, o.Contact, o.Email)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns the OMC with the given id, or nil when it does not exist
// or has been soft-deleted.
func (r *OMCRepo) GetByID(ctx context.Context, id uint64) (*model.OMC, error) {
	const q = `SELECT ` + omcColumns + ` FROM omcs WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	o, err := scanOMC(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListActive returns all non-deleted OMCs ordered by name.
func (r *OMCRepo) ListActive(ctx context.Context) ([]model.OMC, error) {
	const q = `SELECT ` + omcColumns + ` FROM omcs WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.OMC, 0)
	for rows.Next() {
		o, err := scanOMC(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of o to an existing OMC.  Only the
// descriptive columns are writable; identity never changes.
func (r *OMCRepo) Update(ctx context.Context, id uint64, name *string, location, contactPerson, contact, email *string) error {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if name != nil {
		add("name", *name)
	}
	if location != nil {
		add("location", *location)
	}
	if contactPerson != nil {
		add("contact_person", *contactPerson)
	}
	if contact != nil {
		add("contact", *contact)
	}
	if email != nil {
		add("email", *email)
	}
	if len(sets) == 0 {
		return nil
	}
	q := "UPDATE omcs SET " + strings.Join(sets, ", ") + " WHERE id = ? AND deleted_at IS NULL"
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of active OMCs.
func (r *OMCRepo) Count(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM omcs WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}
