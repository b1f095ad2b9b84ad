package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// FuelTokenRepo provides data access to the fuel_tokens table.  The table
// doubles as the sales ledger: an UNUSED row is an outstanding prepaid
// voucher, a USED row is a completed sale with the full redemption detail
// stamped in.
type FuelTokenRepo struct{ DB *sql.DB }

// NewFuelTokenRepo returns a new FuelTokenRepo bound to the given database.
func NewFuelTokenRepo(db *sql.DB) *FuelTokenRepo { return &FuelTokenRepo{DB: db} }

const tokenColumns = `id, token, driver_id, amount, liters, status, redeemed_at,
       mobile_number, station_id, product_catalog_id, dispenser_id, pump_id,
       pump_attendant_id, created_at, updated_at`

func scanToken(row interface{ Scan(...interface{}) error }) (model.FuelToken, error) {
	var (
		t        model.FuelToken
		status   string
		redeemed sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Token, &t.DriverID, &t.Amount, &t.Liters, &status,
		&redeemed, &t.MobileNumber, &t.StationID, &t.ProductCatalogID,
		&t.DispenserID, &t.PumpID, &t.PumpAttendantID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.FuelToken{}, err
	}
	if s, ok := model.ParseTokenStatus(status); ok {
		t.Status = s
	}
	if redeemed.Valid {
		ts := redeemed.Time
		t.RedeemedAt = &ts
	}
	return t, nil
}

// Create inserts a freshly purchased token in the UNUSED state and returns
// its ID.  Only the funding detail is known at purchase time; stationID may
// pre-bind the token to one station or be nil for redeem-anywhere tokens.
func (r *FuelTokenRepo) Create(ctx context.Context, token string, driverID uint64, amount decimal.Decimal, mobile *string, stationID *uint64) (uint64, error) {
	const q = `INSERT INTO fuel_tokens (token, driver_id, amount, status, mobile_number, station_id)
               VALUES (?,?,?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, token, driverID, amount,
		string(model.TokenUnused), mobile, stationID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindUnused returns the UNUSED token row with the given token string, or
// nil when the token does not exist or has already been consumed.
func (r *FuelTokenRepo) FindUnused(ctx context.Context, token string) (*model.FuelToken, error) {
	const q = `SELECT ` + tokenColumns + ` FROM fuel_tokens
               WHERE token = ? AND status = ? LIMIT 1`
	t, err := scanToken(r.DB.QueryRowContext(ctx, q, token, string(model.TokenUnused)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByToken returns the row with the given token string in any state, or
// nil when it does not exist.
func (r *FuelTokenRepo) GetByToken(ctx context.Context, token string) (*model.FuelToken, error) {
	const q = `SELECT ` + tokenColumns + ` FROM fuel_tokens WHERE token = ? LIMIT 1`
	t, err := scanToken(r.DB.QueryRowContext(ctx, q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RedemptionUpdate is the detail stamped onto a token when it is consumed.
type RedemptionUpdate struct {
	StationID       uint64
	CatalogID       uint64
	DispenserID     *uint64
	PumpID          *uint64
	PumpAttendantID uint64
	Amount          decimal.Decimal
	Liters          decimal.Decimal
}

// ConditionalRedeem flips a token from UNUSED to USED and stamps the
// redemption detail in one guarded write.  The status predicate makes the
// transition at-most-once: when two attendants race, exactly one UPDATE
// matches a row and the loser sees ok=false.
func (r *FuelTokenRepo) ConditionalRedeem(ctx context.Context, token string, upd RedemptionUpdate) (bool, error) {
	const q = `UPDATE fuel_tokens
               SET status = ?, redeemed_at = UTC_TIMESTAMP(),
                   station_id = ?, product_catalog_id = ?, dispenser_id = ?,
                   pump_id = ?, pump_attendant_id = ?, amount = ?, liters = ?
               WHERE token = ? AND status = ?`
	res, err := r.DB.ExecContext(ctx, q, string(model.TokenUsed),
		upd.StationID, upd.CatalogID, upd.DispenserID, upd.PumpID,
		upd.PumpAttendantID, upd.Amount, upd.Liters,
		token, string(model.TokenUnused))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// TokenDetail is the flattened read model joined across the token's
// relations, returned by the detail and listing endpoints.
type TokenDetail struct {
	ID            uint64              `json:"id"`
	Token         string              `json:"token"`
	Status        model.TokenStatus   `json:"status"`
	Amount        decimal.NullDecimal `json:"amount"`
	Liters        decimal.NullDecimal `json:"liters"`
	MobileNumber  *string             `json:"mobileNumber"`
	DriverName    *string             `json:"driverName"`
	OMCName       *string             `json:"omcName"`
	StationName   *string             `json:"stationName"`
	ProductName   *string             `json:"productName"`
	PumpNumber    *string             `json:"pumpNumber"`
	AttendantName *string             `json:"attendantName"`
	RedeemedAt    *time.Time          `json:"redeemedAt"`
	CreatedAt     time.Time           `json:"createdAt"`
}

const detailColumns = `t.id, t.token, t.status, t.amount, t.liters, t.mobile_number,
       drv.name, o.name, s.name, c.name, p.pump_number, att.name,
       t.redeemed_at, t.created_at`

const detailJoins = `FROM fuel_tokens t
       LEFT JOIN users drv ON drv.id = t.driver_id
       LEFT JOIN stations s ON s.id = t.station_id
       LEFT JOIN omcs o ON o.id = s.omc_id
       LEFT JOIN product_catalogs c ON c.id = t.product_catalog_id
       LEFT JOIN pumps p ON p.id = t.pump_id
       LEFT JOIN users att ON att.id = t.pump_attendant_id`

func scanDetail(row interface{ Scan(...interface{}) error }) (TokenDetail, error) {
	var (
		d        TokenDetail
		status   string
		redeemed sql.NullTime
	)
	err := row.Scan(&d.ID, &d.Token, &status, &d.Amount, &d.Liters,
		&d.MobileNumber, &d.DriverName, &d.OMCName, &d.StationName,
		&d.ProductName, &d.PumpNumber, &d.AttendantName, &redeemed, &d.CreatedAt)
	if err != nil {
		return TokenDetail{}, err
	}
	if s, ok := model.ParseTokenStatus(status); ok {
		d.Status = s
	}
	if redeemed.Valid {
		ts := redeemed.Time
		d.RedeemedAt = &ts
	}
	return d, nil
}

// GetDetailByID returns the joined detail for one token by surrogate id, or
// nil when it does not exist.
func (r *FuelTokenRepo) GetDetailByID(ctx context.Context, id uint64) (*TokenDetail, error) {
	const q = `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE t.id = ? LIMIT 1`
	d, err := scanDetail(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *FuelTokenRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]TokenDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TokenDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Search returns tokens whose token string contains the fragment, newest
// first, capped at 12 rows.  The handler enforces the minimum fragment
// length.
func (r *FuelTokenRepo) Search(ctx context.Context, fragment string) ([]TokenDetail, error) {
	const q = `SELECT ` + detailColumns + ` ` + detailJoins + `
               WHERE t.token LIKE ?
               ORDER BY t.created_at DESC
               LIMIT 12`
	return r.queryDetails(ctx, q, "%"+fragment+"%")
}

// ListByDriver returns a driver's tokens newest first, optionally filtered
// by status.
func (r *FuelTokenRepo) ListByDriver(ctx context.Context, driverID uint64, status *model.TokenStatus) ([]TokenDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE t.driver_id = ?`
	args := []interface{}{driverID}
	if status != nil {
		q += ` AND t.status = ?`
		args = append(args, string(*status))
	}
	return r.queryDetails(ctx, q+` ORDER BY t.created_at DESC`, args...)
}

// ListSalesByAttendant returns the completed sales an attendant has
// redeemed, newest first.
func (r *FuelTokenRepo) ListSalesByAttendant(ctx context.Context, attendantID uint64) ([]TokenDetail, error) {
	const q = `SELECT ` + detailColumns + ` ` + detailJoins + `
               WHERE t.pump_attendant_id = ? AND t.status = ?
               ORDER BY t.created_at DESC`
	return r.queryDetails(ctx, q, attendantID, string(model.TokenUsed))
}

// ListFiltered returns a page of token details for the admin ledger,
// optionally scoped to one OMC and/or one station, newest first, plus the
// total row count for the filter.
func (r *FuelTokenRepo) ListFiltered(ctx context.Context, omcID, stationID *uint64, page, limit int) ([]TokenDetail, uint64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	where := ` WHERE 1=1`
	args := []interface{}{}
	if omcID != nil {
		where += ` AND o.id = ?`
		args = append(args, *omcID)
	}
	if stationID != nil {
		where += ` AND t.station_id = ?`
		args = append(args, *stationID)
	}

	var total uint64
	countQ := `SELECT COUNT(*) ` + detailJoins + where
	if err := r.DB.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + detailColumns + ` ` + detailJoins + where +
		` ORDER BY t.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)
	out, err := r.queryDetails(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountByStatus returns the number of tokens in the given state.
func (r *FuelTokenRepo) CountByStatus(ctx context.Context, status model.TokenStatus) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fuel_tokens WHERE status = ?`, string(status)).Scan(&n)
	return n, err
}
