package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// TopologyRepo provides data access to dispensers, pumps and the
// pump_attendants assignment table.  Pump reads join the dispenser so the
// caller always sees which station a pump ultimately belongs to.
type TopologyRepo struct{ DB *sql.DB }

// NewTopologyRepo returns a new TopologyRepo bound to the given database.
func NewTopologyRepo(db *sql.DB) *TopologyRepo { return &TopologyRepo{DB: db} }

// CreateDispenser inserts a dispenser at a station and returns its ID.
func (r *TopologyRepo) CreateDispenser(ctx context.Context, stationID uint64, number string) (uint64, error) {
	const q = `INSERT INTO dispensers (station_id, dispenser_number) VALUES (?,?)`
	res, err := r.DB.ExecContext(ctx, q, stationID, number)
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

// GetDispenser returns the active dispenser with the given id, or nil when
// absent.
func (r *TopologyRepo) GetDispenser(ctx context.Context, id uint64) (*model.Dispenser, error) {
	const q = `SELECT id, station_id, dispenser_number, created_at, updated_at
               FROM dispensers WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	var d model.Dispenser
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.StationID,
		&d.DispenserNumber, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDispensersByStation returns the active dispensers at one station.
func (r *TopologyRepo) ListDispensersByStation(ctx context.Context, stationID uint64) ([]model.Dispenser, error) {
	const q = `SELECT id, station_id, dispenser_number, created_at, updated_at
               FROM dispensers WHERE station_id = ? AND deleted_at IS NULL
               ORDER BY dispenser_number`
	rows, err := r.DB.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Dispenser, 0)
	for rows.Next() {
		var d model.Dispenser
		if err := rows.Scan(&d.ID, &d.StationID, &d.DispenserNumber,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreatePump inserts a pump on a dispenser and returns its ID.
func (r *TopologyRepo) CreatePump(ctx context.Context, dispenserID, catalogID uint64, number string) (uint64, error) {
	const q = `INSERT INTO pumps (dispenser_id, product_catalog_id, pump_number) VALUES (?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, dispenserID, catalogID, number)
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

const pumpJoinColumns = `p.id, p.dispenser_id, p.product_catalog_id, p.pump_number,
       d.station_id, p.created_at, p.updated_at`

func scanPump(row interface{ Scan(...interface{}) error }) (model.Pump, error) {
	var p model.Pump
	err := row.Scan(&p.ID, &p.DispenserID, &p.ProductCatalogID, &p.PumpNumber,
		&p.StationID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Pump{}, err
	}
	return p, nil
}

// GetPump returns the active pump with the given id, joined through its
// dispenser so StationID is populated, or nil when absent.
func (r *TopologyRepo) GetPump(ctx context.Context, id uint64) (*model.Pump, error) {
	const q = `SELECT ` + pumpJoinColumns + `
               FROM pumps p
               JOIN dispensers d ON d.id = p.dispenser_id
               WHERE p.id = ? AND p.deleted_at IS NULL AND d.deleted_at IS NULL
               LIMIT 1`
	p, err := scanPump(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPumpsByStation returns the active pumps at one station ordered by
// pump number.
func (r *TopologyRepo) ListPumpsByStation(ctx context.Context, stationID uint64) ([]model.Pump, error) {
	const q = `SELECT ` + pumpJoinColumns + `
               FROM pumps p
               JOIN dispensers d ON d.id = p.dispenser_id
               WHERE d.station_id = ? AND p.deleted_at IS NULL AND d.deleted_at IS NULL
               ORDER BY p.pump_number`
	rows, err := r.DB.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Pump, 0)
	for rows.Next() {
		p, err := scanPump(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AssignAttendants links attendants to a pump.  Existing links are left in
// place (INSERT IGNORE), so re-assigning is idempotent.
func (r *TopologyRepo) AssignAttendants(ctx context.Context, pumpID uint64, attendantIDs []uint64) error {
	if len(attendantIDs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	const q = `INSERT IGNORE INTO pump_attendants (pump_id, user_id) VALUES (?,?)`
	for _, uid := range attendantIDs {
		if _, err := tx.ExecContext(ctx, q, pumpID, uid); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RemoveAttendants unlinks attendants from a pump.
func (r *TopologyRepo) RemoveAttendants(ctx context.Context, pumpID uint64, attendantIDs []uint64) error {
	if len(attendantIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(attendantIDs)), ",")
	q := `DELETE FROM pump_attendants WHERE pump_id = ? AND user_id IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(attendantIDs)+1)
	args = append(args, pumpID)
	for _, uid := range attendantIDs {
		args = append(args, uid)
	}
	_, err := r.DB.ExecContext(ctx, q, args...)
	return err
}

// ListPumpAttendants returns the active attendants assigned to a pump.
func (r *TopologyRepo) ListPumpAttendants(ctx context.Context, pumpID uint64) ([]model.User, error) {
	const q = `SELECT u.id, u.email, u.password_hash, u.role, u.name, u.contact,
                      u.national_id, u.gender, u.vehicle_count, u.company_name,
                      u.region, u.district, u.omc_id, u.station_id,
                      u.deleted_at, u.created_at, u.updated_at
               FROM pump_attendants pa
               JOIN users u ON u.id = pa.user_id
               WHERE pa.pump_id = ? AND u.deleted_at IS NULL
               ORDER BY u.id`
	rows, err := r.DB.QueryContext(ctx, q, pumpID)
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

// ListAttendantPumps returns the active pumps an attendant is assigned to.
func (r *TopologyRepo) ListAttendantPumps(ctx context.Context, attendantID uint64) ([]model.Pump, error) {
	const q = `SELECT ` + pumpJoinColumns + `
               FROM pump_attendants pa
               JOIN pumps p ON p.id = pa.pump_id
               JOIN dispensers d ON d.id = p.dispenser_id
               WHERE pa.user_id = ? AND p.deleted_at IS NULL AND d.deleted_at IS NULL
               ORDER BY p.pump_number`
	rows, err := r.DB.QueryContext(ctx, q, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Pump, 0)
	for rows.Next() {
		p, err := scanPump(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
