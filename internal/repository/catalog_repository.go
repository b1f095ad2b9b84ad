package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// CatalogRepo provides data access to the product_catalogs table.  It also
// serves as the catalog side of price resolution: GetEntry is the
// default-price fallback consulted when no station override exists.
type CatalogRepo struct{ DB *sql.DB }

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

const catalogColumns = `id, omc_id, name, default_price, deleted_at, created_at, updated_at`

func scanCatalog(row interface{ Scan(...interface{}) error }) (model.ProductCatalog, error) {
	var (
		c       model.ProductCatalog
		deleted sql.NullTime
	)
	err := row.Scan(&c.ID, &c.OMCID, &c.Name, &c.DefaultPrice, &deleted,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.ProductCatalog{}, err
	}
	if deleted.Valid {
		t := deleted.Time
		c.DeletedAt = &t
	}
	return c, nil
}

// GetEntry returns the active catalog entry with the given id, or nil when
// it does not exist or has been soft-deleted.  Implements
// pricing.CatalogStore.
func (r *CatalogRepo) GetEntry(ctx context.Context, id uint64) (*model.ProductCatalog, error) {
	const q = `SELECT ` + catalogColumns + ` FROM product_catalogs
               WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	c, err := scanCatalog(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a catalog entry for an OMC and returns its ID.
func (r *CatalogRepo) Create(ctx context.Context, omcID uint64, name string, defaultPrice decimal.Decimal) (uint64, error) {
	const q = `INSERT INTO product_catalogs (omc_id, name, default_price) VALUES (?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, omcID, name, defaultPrice)
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

// UpdateDefaultPrice changes the default per-liter price of an entry.
func (r *CatalogRepo) UpdateDefaultPrice(ctx context.Context, id uint64, price decimal.Decimal) error {
	const q = `UPDATE product_catalogs SET default_price = ? WHERE id = ? AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, q, price, id)
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

// ListByOMC returns the active catalog entries of one OMC ordered by name.
func (r *CatalogRepo) ListByOMC(ctx context.Context, omcID uint64) ([]model.ProductCatalog, error) {
	const q = `SELECT ` + catalogColumns + ` FROM product_catalogs
               WHERE omc_id = ? AND deleted_at IS NULL ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, q, omcID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ProductCatalog, 0)
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindStationProductByName returns the active catalog entry carried (i.e.
// priced) at the station whose name matches case-insensitively, or nil
// when the station does not sell such a product.  The quote flow uses this
// to turn an operator-typed product name into a catalog entry.
func (r *CatalogRepo) FindStationProductByName(ctx context.Context, stationID uint64, name string) (*model.ProductCatalog, error) {
	const q = `SELECT c.id, c.omc_id, c.name, c.default_price, c.deleted_at, c.created_at, c.updated_at
               FROM station_product_prices sp
               JOIN product_catalogs c ON c.id = sp.catalog_id
               WHERE sp.station_id = ? AND LOWER(c.name) = LOWER(?) AND c.deleted_at IS NULL
               LIMIT 1`
	c, err := scanCatalog(r.DB.QueryRowContext(ctx, q, stationID, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListStationProductNames returns the names of all products priced at a
// station.  Used to build the "available products" hint in quote errors.
func (r *CatalogRepo) ListStationProductNames(ctx context.Context, stationID uint64) ([]string, error) {
	const q = `SELECT c.name
               FROM station_product_prices sp
               JOIN product_catalogs c ON c.id = sp.catalog_id
               WHERE sp.station_id = ? AND c.deleted_at IS NULL
               ORDER BY c.name`
	rows, err := r.DB.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
