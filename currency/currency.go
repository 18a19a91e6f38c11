package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// BTC is the canonical code for the base cryptocurrency. The exchange
	// lists it as XBT.
	BTC = "BTC"
	// XBT is the exchange's code for BTC.
	XBT = "XBT"

	btcDecimals  = 8
	fiatDecimals = 2

	// tradableDecimals is the maximum main-unit precision the exchange
	// accepts on order amounts.
	tradableDecimals = 4
	// priceDecimals is the maximum precision the exchange accepts on
	// limit prices.
	priceDecimals = 2
)

// Decimals returns the number of decimal places of the currency's main
// unit, i.e. how many sub-units make one main unit as a power of ten.
// Every conversion in this package goes through this table.
func Decimals(currency string) int32 {
	if currency == BTC {
		return btcDecimals
	}
	return fiatDecimals
}

// ToSubUnit converts a main-unit amount to the smallest sub-unit of the
// currency, rounding half away from zero. For BTC 0.12345678 becomes
// 12345678; for USD 123.45 becomes 12345.
func ToSubUnit(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(Decimals(currency)).Round(0).IntPart()
}

// ParseToSubUnit parses a string-encoded decimal amount and converts it to
// sub-units.
func ParseToSubUnit(amount, currency string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal amount %q: %w", amount, err)
	}
	return ToSubUnit(d, currency), nil
}

// FromSubUnit converts a sub-unit amount back to the currency's main unit.
// Inverse of ToSubUnit for any integer input.
func FromSubUnit(amount int64, currency string) decimal.Decimal {
	return decimal.New(amount, -Decimals(currency))
}

// FormatSubUnit renders a sub-unit amount as a main-unit string fixed to
// the currency's decimal places, e.g. 12345 USD cents as "123.45".
func FormatSubUnit(amount int64, currency string) string {
	return FromSubUnit(amount, currency).StringFixed(Decimals(currency))
}

// Normalize maps exchange currency codes to canonical ones.
func Normalize(currency string) string {
	if currency == XBT {
		return BTC
	}
	return currency
}

// ToExchange maps canonical currency codes to the exchange's codes.
func ToExchange(currency string) string {
	if currency == BTC {
		return XBT
	}
	return currency
}

// TruncateToTradable cuts a main-unit amount down to the precision the
// order endpoint accepts. Truncation rounds toward zero on purpose: an
// order must never be placed for more than the caller asked. The caller is
// responsible for logging when this loses precision.
func TruncateToTradable(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(tradableDecimals)
}

// RoundPrice rounds a limit price to the precision the order endpoint
// accepts, half away from zero.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(priceDecimals)
}
