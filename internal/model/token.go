package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenStatus is the two-state lifecycle of a fuel token.  The transition
// UNUSED -> USED happens exactly once and is never reversed.
type TokenStatus string

const (
	TokenUnused TokenStatus = "UNUSED"
	TokenUsed   TokenStatus = "USED"
)

// ParseTokenStatus converts a raw string into a TokenStatus.  The second
// return value is false for unknown strings.
func ParseTokenStatus(s string) (TokenStatus, bool) {
	switch TokenStatus(s) {
	case TokenUnused, TokenUsed:
		return TokenStatus(s), true
	}
	return "", false
}

// FuelToken is a prepaid voucher purchased by a driver and later redeemed
// by a pump attendant.  Before redemption only the token string, the
// driver and the paid amount are set.  Redemption stamps the remaining
// relational detail, fixes liters and amount, and flips Status to USED in
// a single conditional write.
//
// Fields:
//  ID               – surrogate primary key.
//  Token            – opaque unique string, the redemption key.
//  DriverID         – driver who funded the token.
//  Amount           – currency amount; null until resolved.
//  Liters           – dispensed volume; null until redemption.
//  Status           – UNUSED or USED.
//  RedeemedAt       – when the token was consumed (null while UNUSED).
//  MobileNumber     – payment mobile number captured at purchase.
//  StationID        – station of redemption (may be pre-bound at purchase).
//  ProductCatalogID – product dispensed.
//  DispenserID      – dispenser used, if recorded.
//  PumpID           – pump used, if recorded.
//  PumpAttendantID  – attendant who redeemed the token.
//  CreatedAt        – purchase timestamp.
//  UpdatedAt        – last update timestamp.
type FuelToken struct {
	ID               uint64
	Token            string
	DriverID         *uint64
	Amount           decimal.NullDecimal
	Liters           decimal.NullDecimal
	Status           TokenStatus
	RedeemedAt       *time.Time
	MobileNumber     *string
	StationID        *uint64
	ProductCatalogID *uint64
	DispenserID      *uint64
	PumpID           *uint64
	PumpAttendantID  *uint64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
