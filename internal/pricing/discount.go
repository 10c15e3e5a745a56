package pricing

import (
	"github.com/shopspring/decimal"

	"redfragances/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// DiscountFromPercent derives a size entry's discount price from the admin's
// percentage. Returns nil when either the price or the percentage is not positive.
func DiscountFromPercent(price int64, pct int) *int64 {
	if price <= 0 || pct <= 0 {
		return nil
	}
	if pct > 100 {
		pct = 100
	}
	d := decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(hundred).
		Round(0)
	return domain.Int64(d.IntPart())
}

// PercentFromDiscount is the inverse used to prefill the admin form.
func PercentFromDiscount(price int64, discount *int64) int {
	if price <= 0 || discount == nil || *discount <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(price - *discount).
		Mul(hundred).
		Div(decimal.NewFromInt(price)).
		Round(0)
	return int(pct.IntPart())
}

// WithPercent returns entry with its discount recomputed from pct.
func WithPercent(entry domain.SizePrice, pct int) domain.SizePrice {
	entry.DiscountPrice = DiscountFromPercent(entry.Price, pct)
	return entry
}
