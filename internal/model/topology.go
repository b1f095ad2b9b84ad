package model

import "time"

// Dispenser is a fuel dispensing unit installed at a station.  Each
// dispenser owns one or more pumps.
//
// Fields:
//  ID              – primary key identifier.
//  StationID       – station the dispenser is installed at.
//  DispenserNumber – unique label (e.g. "DISP-001").
//  DeletedAt       – soft-delete marker (NULL = active).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Dispenser struct {
	ID              uint64
	StationID       uint64
	DispenserNumber string
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Pump is a single nozzle on a dispenser, bound to exactly one catalog
// entry (the product it dispenses).  Attendants are assigned to pumps
// through the pump_attendants join table.
//
// Fields:
//  ID               – primary key identifier.
//  DispenserID      – dispenser the pump belongs to.
//  ProductCatalogID – product this pump dispenses.
//  PumpNumber       – unique label (e.g. "PUMP-001A").
//  StationID        – station resolved through the dispenser; populated on
//                     reads that join the chain, zero otherwise.
//  DeletedAt        – soft-delete marker (NULL = active).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Pump struct {
	ID               uint64
	DispenserID      uint64
	ProductCatalogID uint64
	PumpNumber       string
	StationID        uint64
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
