package pricing

import "github.com/shopspring/decimal"

// Rounding scales for the liters/amount conversion.  Redemption fixes
// liters at three decimal places and amounts at two; pre-redemption quotes
// carry six places because they are previews, not commitments.
const (
	litersScale = 3
	amountScale = 2
	quoteScale  = 6
)

// softCheckTolerance bounds how far operator-entered liters may drift from
// the derived value before a consistency warning is emitted.  Exceeding it
// never blocks a sale.
var softCheckTolerance = decimal.New(1, -2) // 0.01

// LitersFromAmount converts a currency amount into liters at the given
// per-liter price, rounded to three decimal places.  price must be
// positive; callers guarantee this via ResolvePrice.
func LitersFromAmount(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Div(price).Round(litersScale)
}

// AmountFromLiters converts a liters quantity into a currency amount at the
// given per-liter price, rounded to two decimal places.
func AmountFromLiters(liters, price decimal.Decimal) decimal.Decimal {
	return liters.Mul(price).Round(amountScale)
}

// QuoteLiters is the high-precision variant used by the pre-redemption
// calculator: six decimal places instead of three.
func QuoteLiters(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Div(price).Round(quoteScale)
}

// LitersConsistent reports whether operator-entered liters agree with the
// liters derived from the amount, within the soft-check tolerance.
func LitersConsistent(entered, amount, price decimal.Decimal) (expected decimal.Decimal, ok bool) {
	expected = LitersFromAmount(amount, price)
	return expected, entered.Sub(expected).Abs().LessThanOrEqual(softCheckTolerance)
}
