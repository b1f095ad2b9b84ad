package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewFuelTokenString generates the opaque voucher string handed to a driver
// at purchase time.  The "FT-" prefix keeps tokens recognizable on receipts
// and in support tickets; the UUID body guarantees uniqueness without a
// round trip to the database.
func NewFuelTokenString() string {
	return "FT-" + strings.ToUpper(uuid.NewString())
}
