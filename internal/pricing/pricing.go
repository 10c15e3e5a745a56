// Package pricing resolves the charged amount for a product at a given size.
//
// A size price table entry with a positive price wins. Anything else falls back
// to the multiplier model: the product's list price scaled by a fixed ratio per
// size label and rounded half-up to an integer amount. Arithmetic is exact
// decimal so the detail view and the cart always agree on the same number.
package pricing

import (
	"github.com/shopspring/decimal"

	"redfragances/internal/domain"
)

// DefaultSize is used when a cart add names no size.
const DefaultSize = "50ml"

var (
	one = decimal.NewFromInt(1)

	standardSizes = []string{"30ml", "50ml", "100ml", "200ml"}

	multipliers = map[string]decimal.Decimal{
		"30ml":  decimal.RequireFromString("0.7"),
		"50ml":  decimal.RequireFromString("1.0"),
		"100ml": decimal.RequireFromString("1.6"),
		"200ml": decimal.RequireFromString("2.8"),
	}
)

// StandardSizes lists the size labels offered by the storefront, smallest first.
func StandardSizes() []string {
	return append([]string(nil), standardSizes...)
}

// Multiplier returns the multiplier model ratio for size; unknown labels get 1.
func Multiplier(size string) decimal.Decimal {
	if m, ok := multipliers[size]; ok {
		return m
	}
	return one
}

// Choice selects how a cart line obtains its unit price. It is either
// Resolved (caller supplied the amount) or UseDefault (run the resolver).
type Choice interface {
	isChoice()
}

// Resolved carries an amount the caller already computed for the size.
type Resolved struct {
	Amount int64
}

// UseDefault asks the resolver to price the size from the product.
type UseDefault struct{}

func (Resolved) isChoice()   {}
func (UseDefault) isChoice() {}

// Override is shorthand for Resolved{Amount: amount}.
func Override(amount int64) Choice { return Resolved{Amount: amount} }

// Default is shorthand for UseDefault{}.
func Default() Choice { return UseDefault{} }

// Resolve returns the charge for one unit of p at size.
// A Resolved choice is returned unchanged; a nil choice behaves like UseDefault.
func Resolve(p domain.Product, size string, c Choice) int64 {
	switch c := c.(type) {
	case Resolved:
		return c.Amount
	default: // UseDefault, nil
		return QuoteFor(p, size).Amount
	}
}

// Source records which rule priced a quote.
type Source string

const (
	SourceSizeTable  Source = "size_table"
	SourceMultiplier Source = "multiplier"
)

// Quote is the detail-view pricing for one size: the charged amount, plus the
// pre-discount amount to show struck through when a discount applies.
type Quote struct {
	Size     string `json:"size"`
	Amount   int64  `json:"amount"`
	Original *int64 `json:"original,omitempty"`
	Source   Source `json:"source"`
}

// QuoteFor prices p at size without an override.
func QuoteFor(p domain.Product, size string) Quote {
	if entry, ok := p.SizeEntry(size); ok && entry.Price > 0 {
		q := Quote{Size: size, Amount: entry.Effective(), Source: SourceSizeTable}
		if entry.DiscountPrice != nil {
			q.Original = domain.Int64(entry.Price)
		}
		return q
	}

	q := Quote{Size: size, Amount: Scale(p.ListPrice(), size), Source: SourceMultiplier}
	if p.DiscountPrice != nil {
		q.Original = domain.Int64(Scale(p.Price, size))
	}
	return q
}

// QuoteAll prices p at every standard size.
func QuoteAll(p domain.Product) []Quote {
	out := make([]Quote, 0, len(standardSizes))
	for _, s := range standardSizes {
		out = append(out, QuoteFor(p, s))
	}
	return out
}

// Scale applies the size multiplier to amount and rounds half-up.
func Scale(amount int64, size string) int64 {
	return decimal.NewFromInt(amount).Mul(Multiplier(size)).Round(0).IntPart()
}
