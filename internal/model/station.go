package model

import "time"

// Station is a physical fuel station owned by an OMC.  A station owns its
// dispensers, its pumps (through dispensers) and its price overrides.
//
// Fields:
//  ID             – primary key identifier.
//  OMCID          – owning OMC.
//  Name           – station name, unique per OMC.
//  Region         – administrative region.
//  District       – administrative district.
//  Town           – town or suburb.
//  ManagerName    – station manager's name.
//  ManagerContact – station manager's phone number.
//  DeletedAt      – soft-delete marker (NULL = active).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Station struct {
	ID             uint64
	OMCID          uint64
	Name           string
	Region         *string
	District       *string
	Town           *string
	ManagerName    *string
	ManagerContact *string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
