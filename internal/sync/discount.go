package sync

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPercent computes the percentage-off discount that maps a source
// base price onto the price actually paid on the destination:
//
//	(base - paid) / base * 100
//
// clamped to [0, 100] and rounded to two decimal places. A base price of
// zero or less yields zero, never a division by zero. Unparseable prices
// are treated as zero.
func DiscountPercent(basePrice, paidPrice string) decimal.Decimal {
	base := parsePrice(basePrice)
	paid := parsePrice(paidPrice)

	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	pct := base.Sub(paid).Div(base).Mul(hundred).Round(2)
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// PricesEqual compares two decimal price strings by numeric value, so
// "25.0" and "25.00" are the same price.
func PricesEqual(a, b string) bool {
	return parsePrice(a).Equal(parsePrice(b))
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
