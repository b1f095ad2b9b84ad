package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCatalog is a fuel product (e.g. Diesel) scoped to one OMC.  The
// default price applies at every station of the OMC unless a station
// override exists.
//
// Fields:
//  ID           – primary key identifier.
//  OMCID        – owning OMC.
//  Name         – product name, unique per OMC.
//  DefaultPrice – default price per liter in currency units.
//  DeletedAt    – soft-delete marker (NULL = active).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type ProductCatalog struct {
	ID           uint64
	OMCID        uint64
	Name         string
	DefaultPrice decimal.Decimal
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StationProductPrice overrides a catalog entry's default price at a single
// station.  At most one row exists per (catalog, station) pair.  The
// override is authoritative whenever present; EffectiveFrom is stamped at
// write time and is not consulted during resolution.
//
// Fields:
//  ID            – primary key identifier.
//  CatalogID     – catalog entry being overridden.
//  StationID     – station the override applies to.
//  Price         – overriding price per liter.
//  EffectiveFrom – when the override was declared to take effect.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type StationProductPrice struct {
	ID            uint64
	CatalogID     uint64
	StationID     uint64
	Price         decimal.Decimal
	EffectiveFrom time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
