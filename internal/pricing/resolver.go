// Package pricing resolves the per-liter price of a product at a station
// and owns the fixed-point liters/amount arithmetic used during token
// redemption.  All math is done on decimal values; float64 never touches a
// monetary or volume figure.
package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// ErrNotAvailable is returned when no positive price can be resolved for a
// (catalog, station) pair: the override is absent, the catalog entry is
// missing or soft-deleted, or the resolved price is not positive.
var ErrNotAvailable = errors.New("pricing: no price available")

// OverrideStore looks up the station-specific price override for a catalog
// entry.  Implementations return (nil, nil) when no override row exists.
type OverrideStore interface {
	GetOverride(ctx context.Context, catalogID, stationID uint64) (*model.StationProductPrice, error)
}

// CatalogStore fetches catalog entries for default-price fallback.
// Implementations return (nil, nil) for absent or soft-deleted entries.
type CatalogStore interface {
	GetEntry(ctx context.Context, catalogID uint64) (*model.ProductCatalog, error)
}

// Resolver answers "what does one liter of this product cost at this
// station right now".  It must be consulted fresh on every redemption;
// callers never cache its result on a token.
type Resolver struct {
	overrides OverrideStore
	catalogs  CatalogStore
}

// NewResolver builds a Resolver over the given stores.
func NewResolver(overrides OverrideStore, catalogs CatalogStore) *Resolver {
	return &Resolver{overrides: overrides, catalogs: catalogs}
}

// ResolvePrice returns the applicable per-liter price for the pair.  A
// station override always wins, even when its effective-from timestamp lies
// in the future; resolution never filters on that column.  Without an
// override the catalog default applies.  Non-positive prices resolve to
// ErrNotAvailable since every caller divides or multiplies by the result.
func (r *Resolver) ResolvePrice(ctx context.Context, catalogID, stationID uint64) (decimal.Decimal, error) {
	override, err := r.overrides.GetOverride(ctx, catalogID, stationID)
	if err != nil {
		return decimal.Zero, err
	}
	if override != nil {
		if override.Price.IsPositive() {
			return override.Price, nil
		}
		return decimal.Zero, ErrNotAvailable
	}
	entry, err := r.catalogs.GetEntry(ctx, catalogID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry == nil || !entry.DefaultPrice.IsPositive() {
		return decimal.Zero, ErrNotAvailable
	}
	return entry.DefaultPrice, nil
}
