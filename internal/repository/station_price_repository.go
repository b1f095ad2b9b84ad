package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// StationPriceRepo provides data access to the station_product_prices
// table.  A row overrides the catalog default at exactly one station; the
// unique key on (catalog_id, station_id) keeps one override per pair.
type StationPriceRepo struct{ DB *sql.DB }

// NewStationPriceRepo returns a new StationPriceRepo bound to the database.
func NewStationPriceRepo(db *sql.DB) *StationPriceRepo { return &StationPriceRepo{DB: db} }

// GetOverride returns the override row for the pair, or nil when no
// override exists.  The effective_from column is returned but never
// filtered on: a future-dated override still applies.  Implements
// pricing.OverrideStore.
func (r *StationPriceRepo) GetOverride(ctx context.Context, catalogID, stationID uint64) (*model.StationProductPrice, error) {
	const q = `SELECT id, catalog_id, station_id, price, effective_from, created_at, updated_at
               FROM station_product_prices
               WHERE catalog_id = ? AND station_id = ? LIMIT 1`
	var p model.StationProductPrice
	err := r.DB.QueryRowContext(ctx, q, catalogID, stationID).Scan(
		&p.ID, &p.CatalogID, &p.StationID, &p.Price, &p.EffectiveFrom,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the override for the pair, stamping
// effective_from with the current time.
func (r *StationPriceRepo) Upsert(ctx context.Context, catalogID, stationID uint64, price decimal.Decimal) error {
	const q = `INSERT INTO station_product_prices (catalog_id, station_id, price, effective_from)
               VALUES (?,?,?,UTC_TIMESTAMP())
               ON DUPLICATE KEY UPDATE price = VALUES(price), effective_from = UTC_TIMESTAMP()`
	_, err := r.DB.ExecContext(ctx, q, catalogID, stationID, price)
	return err
}

// Delete removes the override so resolution falls back to the catalog
// default on the next read.
func (r *StationPriceRepo) Delete(ctx context.Context, catalogID, stationID uint64) error {
	const q = `DELETE FROM station_product_prices WHERE catalog_id = ? AND station_id = ?`
	res, err := r.DB.ExecContext(ctx, q, catalogID, stationID)
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

// ListByStation returns all overrides at a station.
func (r *StationPriceRepo) ListByStation(ctx context.Context, stationID uint64) ([]model.StationProductPrice, error) {
	const q = `SELECT id, catalog_id, station_id, price, effective_from, created_at, updated_at
               FROM station_product_prices WHERE station_id = ?`
	rows, err := r.DB.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StationProductPrice, 0)
	for rows.Next() {
		var p model.StationProductPrice
		if err := rows.Scan(&p.ID, &p.CatalogID, &p.StationID, &p.Price,
			&p.EffectiveFrom, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
