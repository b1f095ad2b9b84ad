package model

import "time"

// User represents a row in the `users` table.  A single table backs every
// role: OMC admins and station managers carry the staff columns only, pump
// attendants additionally reference the station they work at, and drivers
// carry the fleet columns (national ID, vehicle count, company).  The
// optional columns are pointers so that absent values round-trip as NULL.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – closed role enumeration (see Role).
//  Name         – display name (attendants and drivers).
//  Contact      – phone number.
//  NationalID   – national identity number (attendants and drivers).
//  Gender       – free-form gender string for attendants.
//  VehicleCount – number of vehicles a driver operates.
//  CompanyName  – driver's company, if any.
//  Region       – driver's region.
//  District     – driver's district.
//  OMCID        – OMC the user belongs to (staff).
//  StationID    – station an attendant or manager is assigned to.
//  DeletedAt    – soft-delete marker; NULL means the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         Role
	Name         *string
	Contact      *string
	NationalID   *string
	Gender       *string
	VehicleCount *uint32
	CompanyName  *string
	Region       *string
	District     *string
	OMCID        *uint64
	StationID    *uint64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
