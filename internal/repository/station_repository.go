package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// StationRepo provides data access to the stations table.
type StationRepo struct{ DB *sql.DB }

// NewStationRepo returns a new StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{DB: db} }

const stationColumns = `id, omc_id, name, region, district, town,
       manager_name, manager_contact, deleted_at, created_at, updated_at`

func scanStation(row interface{ Scan(...interface{}) error }) (model.Station, error) {
	var (
		s       model.Station
		deleted sql.NullTime
	)
	err := row.Scan(&s.ID, &s.OMCID, &s.Name, &s.Region, &s.District, &s.Town,
		&s.ManagerName, &s.ManagerContact, &deleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Station{}, err
	}
	if deleted.Valid {
		t := deleted.Time
		s.DeletedAt = &t
	}
	return s, nil
}

// Create inserts a station under the given OMC and returns its ID.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) (uint64, error) {
	const q = `INSERT INTO stations (omc_id, name, region, district, town, manager_name, manager_contact)
               VALUES (?,?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, s.OMCID, s.Name, s.Region, s.District,
		s.Town, s.ManagerName, s.ManagerContact)
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

// GetByID returns the active station with the given id, or nil when it
// does not exist or has been soft-deleted.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM stations WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	s, err := scanStation(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns active stations, optionally filtered to one OMC, ordered by
// name.
func (r *StationRepo) List(ctx context.Context, omcID *uint64) ([]model.Station, error) {
	q := `SELECT ` + stationColumns + ` FROM stations WHERE deleted_at IS NULL`
	args := []interface{}{}
	if omcID != nil {
		q += ` AND omc_id = ?`
		args = append(args, *omcID)
	}
	rows, err := r.DB.QueryContext(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update applies the non-nil descriptive fields to an existing station.
func (r *StationRepo) Update(ctx context.Context, id uint64, name, region, district, town, managerName, managerContact *string) error {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if name != nil {
		add("name", *name)
	}
	if region != nil {
		add("region", *region)
	}
	if district != nil {
		add("district", *district)
	}
	if town != nil {
		add("town", *town)
	}
	if managerName != nil {
		add("manager_name", *managerName)
	}
	if managerContact != nil {
		add("manager_contact", *managerContact)
	}
	if len(sets) == 0 {
		return nil
	}
	q := "UPDATE stations SET " + strings.Join(sets, ", ") + " WHERE id = ? AND deleted_at IS NULL"
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

// Count returns the number of active stations, optionally per OMC.
func (r *StationRepo) Count(ctx context.Context, omcID *uint64) (uint64, error) {
	q := `SELECT COUNT(*) FROM stations WHERE deleted_at IS NULL`
	args := []interface{}{}
	if omcID != nil {
		q += ` AND omc_id = ?`
		args = append(args, *omcID)
	}
	var n uint64
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}
