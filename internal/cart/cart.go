// Package cart holds the session shopping cart.
//
// Lines merge on (product id, size) but removal and quantity changes address a
// product id and therefore touch every size variant of that product. The two
// identities are distinct types so the difference stays visible at call sites.
// A Cart is not safe for concurrent use; the storefront serializes access.
package cart

import (
	"redfragances/internal/domain"
	"redfragances/internal/pricing"
)

// MergeKey identifies a line for add/merge.
type MergeKey struct {
	ProductID string
	Size      string
}

// ProductKey addresses all lines of one product for remove/update-quantity.
type ProductKey string

// KeyOf returns the merge key of l.
func KeyOf(l domain.CartLine) MergeKey {
	return MergeKey{ProductID: l.Product.ID, Size: l.Size}
}

// AddHook is called after every add. The presentation layer uses it to open the cart.
type AddHook func(line domain.CartLine, merged bool)

// Option configures a Cart.
type Option func(*Cart)

// WithAddHook registers h; hooks run in registration order.
func WithAddHook(h AddHook) Option {
	return func(c *Cart) {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
}

// Cart ordered cart lines in insertion order
type Cart struct {
	lines []domain.CartLine
	hooks []AddHook
}

func New(opts ...Option) *Cart {
	c := &Cart{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add puts one unit of p at size into the cart. An existing line with the same
// merge key gets quantity+1 and keeps its frozen price; otherwise a new line is
// appended with the resolved price. Returns the line as it now stands.
func (c *Cart) Add(p domain.Product, size string, choice pricing.Choice) domain.CartLine {
	key := MergeKey{ProductID: p.ID, Size: size}
	for i := range c.lines {
		if KeyOf(c.lines[i]) == key {
			c.lines[i].Quantity++
			line := c.lines[i]
			c.notify(line, true)
			return line
		}
	}

	line := domain.CartLine{
		Product:   p.Clone(),
		Quantity:  1,
		Size:      size,
		UnitPrice: pricing.Resolve(p, size, choice),
	}
	c.lines = append(c.lines, line)
	c.notify(line, false)
	return line
}

func (c *Cart) notify(line domain.CartLine, merged bool) {
	for _, h := range c.hooks {
		h(line, merged)
	}
}

// Remove deletes every line of the product regardless of size and returns how many went.
func (c *Cart) Remove(id ProductKey) int {
	kept := c.lines[:0]
	removed := 0
	for _, l := range c.lines {
		if ProductKey(l.Product.ID) == id {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	// clear the tail so dropped snapshots can be collected
	for i := len(kept); i < len(c.lines); i++ {
		c.lines[i] = domain.CartLine{}
	}
	c.lines = kept
	return removed
}

// UpdateQuantity adds delta to every line of the product, clamping at 1.
// Returns the number of lines touched.
func (c *Cart) UpdateQuantity(id ProductKey, delta int) int {
	touched := 0
	for i := range c.lines {
		if ProductKey(c.lines[i].Product.ID) != id {
			continue
		}
		c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)
		touched++
	}
	return touched
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Subtotal sum of unit price times quantity over all lines
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// LineCount number of distinct lines
func (c *Cart) LineCount() int {
	return len(c.lines)
}

// TotalUnits sum of quantities, shown on the cart badge
func (c *Cart) TotalUnits() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the lines in cart order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = l
		out[i].Product = l.Product.Clone()
	}
	return out
}
