package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/utils"
)

// UserRepo provides data access to the users table.  The table backs every
// role in the system; attendant-specific queries filter on the role column
// and the station assignment.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// userColumns is the full select list shared by every user query.
const userColumns = `id, email, password_hash, role, name, contact, national_id, gender,
       vehicle_count, company_name, region, district, omc_id, station_id,
       deleted_at, created_at, updated_at`

// scanUser reads one row produced with userColumns into a model.User.
func scanUser(row interface{ Scan(...interface{}) error }) (model.User, error) {
	var (
		u       model.User
		role    string
		deleted sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Name, &u.Contact,
		&u.NationalID, &u.Gender, &u.VehicleCount, &u.CompanyName, &u.Region,
		&u.District, &u.OMCID, &u.StationID, &deleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if r, ok := model.ParseRole(role); ok {
		u.Role = r
	}
	if deleted.Valid {
		t := deleted.Time
		u.DeletedAt = &t
	}
	return u, nil
}

// Create inserts a user with the given role and returns its ID.  Drivers
// register themselves through this path; staff accounts are created by the
// admin-specific helpers below.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role.String())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an active user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ? AND deleted_at IS NULL LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, q, email))
}

// GetByID fetches a user by id regardless of soft-delete state.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, q, id))
}

// FindActiveAttendant returns the pump attendant with the given id, or nil
// when no such attendant exists.  Soft-deleted users and users holding any
// other role never match.  When stationID is non-nil the attendant must
// additionally be assigned to that exact station; this is how the
// redemption flow enforces that only staff of a station sell there.
func (r *UserRepo) FindActiveAttendant(ctx context.Context, id uint64, stationID *uint64) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users
          WHERE id = ? AND role = ? AND deleted_at IS NULL`
	args := []interface{}{id, model.RolePumpAttendant.String()}
	if stationID != nil {
		q += ` AND station_id = ?`
		args = append(args, *stationID)
	}
	u, err := scanUser(r.DB.QueryRowContext(ctx, q+` LIMIT 1`, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AttendantRecord carries the writable fields of a pump attendant account.
// Pointer fields are optional on update; nil leaves the column untouched.
type AttendantRecord struct {
	Name       *string
	NationalID *string
	Contact    *string
	Gender     *string
	CardImage  *string
	Email      *string
	Password   *string
	StationID  *uint64
	OMCID      *uint64
}

// CreateAttendant inserts a PUMP_ATTENDANT user.  Name, email, password
// and station are required by the handler; the remaining fields are
// optional.  Returns the new user ID.
func (r *UserRepo) CreateAttendant(ctx context.Context, rec AttendantRecord, cost int) (uint64, error) {
	hash, err := utils.HashPassword(*rec.Password, cost)
	if err != nil {
		return 0, err
	}
	email := strings.ToLower(strings.TrimSpace(*rec.Email))
	const q = `INSERT INTO users (email, password_hash, role, name, national_id, contact, gender, station_id, omc_id)
               VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, email, hash, model.RolePumpAttendant.String(),
		rec.Name, rec.NationalID, rec.Contact, rec.Gender, rec.StationID, rec.OMCID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateAttendant applies the non-nil fields of rec to an existing
// attendant.  Passing an all-nil record is a no-op.
func (r *UserRepo) UpdateAttendant(ctx context.Context, id uint64, rec AttendantRecord, cost int) error {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if rec.Name != nil {
		add("name", *rec.Name)
	}
	if rec.NationalID != nil {
		add("national_id", *rec.NationalID)
	}
	if rec.Contact != nil {
		add("contact", *rec.Contact)
	}
	if rec.Gender != nil {
		add("gender", *rec.Gender)
	}
	if rec.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*rec.Email)))
	}
	if rec.Password != nil {
		hash, err := utils.HashPassword(*rec.Password, cost)
		if err != nil {
			return err
		}
		add("password_hash", hash)
	}
	if rec.StationID != nil {
		add("station_id", *rec.StationID)
	}
	if rec.OMCID != nil {
		add("omc_id", *rec.OMCID)
	}
	if len(sets) == 0 {
		return nil
	}
	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ? AND role = ? AND deleted_at IS NULL"
	args = append(args, id, model.RolePumpAttendant.String())
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
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

// SoftDeleteAttendant marks an attendant as deleted.  The row is retained
// because historical transactions reference it.
func (r *UserRepo) SoftDeleteAttendant(ctx context.Context, id uint64) error {
	const q = `UPDATE users SET deleted_at = UTC_TIMESTAMP()
               WHERE id = ? AND role = ? AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, q, id, model.RolePumpAttendant.String())
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

// ListAttendants returns all active attendants, optionally restricted to
// one OMC, ordered by name.
func (r *UserRepo) ListAttendants(ctx context.Context, omcID *uint64) ([]model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE role = ? AND deleted_at IS NULL`
	args := []interface{}{model.RolePumpAttendant.String()}
	if omcID != nil {
		q += ` AND omc_id = ?`
		args = append(args, *omcID)
	}
	rows, err := r.DB.QueryContext(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountAttendants counts active attendants, optionally per OMC.
func (r *UserRepo) CountAttendants(ctx context.Context, omcID *uint64) (uint64, error) {
	q := `SELECT COUNT(*) FROM users WHERE role = ? AND deleted_at IS NULL`
	args := []interface{}{model.RolePumpAttendant.String()}
	if omcID != nil {
		q += ` AND omc_id = ?`
		args = append(args, *omcID)
	}
	var n uint64
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
