package service

import "errors"

// Sentinel errors returned by the redemption service.  Handlers map these
// onto HTTP statuses: not-found conditions become 404, missing or
// inconsistent input becomes 400, and a lost redemption race becomes 409.
var (
	ErrTokenNotFound         = errors.New("fuel token not found or already used")
	ErrAttendantNotFound     = errors.New("pump attendant not found for station")
	ErrStationRequired       = errors.New("station id is required")
	ErrStationNotFound       = errors.New("station not found")
	ErrPumpNotFound          = errors.New("pump not found")
	ErrPumpStationMismatch   = errors.New("pump does not belong to station")
	ErrPumpDispenserMismatch = errors.New("pump does not belong to dispenser")
	ErrCatalogRequired       = errors.New("product catalog id is required")
	ErrPriceNotAvailable     = errors.New("no price available for product at station")
	ErrAmountRequired        = errors.New("amount is required to compute liters")
	ErrAlreadyRedeemed       = errors.New("token was already redeemed")
	ErrTokenNoAmount         = errors.New("token has no amount to quote")
	ErrProductNotAtStation   = errors.New("product not sold at station")
)
