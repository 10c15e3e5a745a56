package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"redfragances/internal/cart"
	"redfragances/internal/domain"
	"redfragances/internal/pricing"
)

type cartTestContext struct {
	catalog map[string]domain.Product
	cart    *cart.Cart
}

func (c *cartTestContext) reset() {
	c.catalog = make(map[string]domain.Product)
	c.cart = cart.New()
}

func (c *cartTestContext) aCatalogProductPriced(id string, price int) error {
	c.catalog[id] = domain.Product{ID: id, Name: "Perfume " + id, Brand: "Dior", Price: int64(price)}
	return nil
}

func (c *cartTestContext) productHasSizePriceDiscounted(id, size string, price, discount int) error {
	p, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	p.SizePrices = append(p.SizePrices, domain.SizePrice{Size: size, Price: int64(price), DiscountPrice: domain.Int64(int64(discount))})
	c.catalog[id] = p
	return nil
}

func (c *cartTestContext) theCatalogPriceChanges(id string, price int) error {
	p, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	p.Price = int64(price)
	c.catalog[id] = p
	return nil
}

func (c *cartTestContext) iAdd(id, size string) error {
	p, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	c.cart.Add(p, size, pricing.Default())
	return nil
}

func (c *cartTestContext) iAddFor(id, size string, price int) error {
	p, ok := c.catalog[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	c.cart.Add(p, size, pricing.Override(int64(price)))
	return nil
}

func (c *cartTestContext) iChangeTheQuantity(id string, delta int) error {
	c.cart.UpdateQuantity(cart.ProductKey(id), delta)
	return nil
}

func (c *cartTestContext) iRemove(id string) error {
	c.cart.Remove(cart.ProductKey(id))
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := c.cart.LineCount(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theLineHas(id, size string, qty, unit int) error {
	var line domain.CartLine
	ok := false
	for _, l := range c.cart.Lines() {
		if cart.KeyOf(l) == (cart.MergeKey{ProductID: id, Size: size}) {
			line, ok = l, true
		}
	}
	if !ok {
		return fmt.Errorf("no line for %s/%s", id, size)
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
	}
	if line.UnitPrice != int64(unit) {
		return fmt.Errorf("expected unit price %d, got %d", unit, line.UnitPrice)
	}
	return nil
}

func (c *cartTestContext) theCartSubtotalIs(total int) error {
	if got := c.cart.Subtotal(); got != int64(total) {
		return fmt.Errorf("expected subtotal %d, got %d", total, got)
	}
	return nil
}

func (c *cartTestContext) theCartHoldsUnits(n int) error {
	if got := c.cart.TotalUnits(); got != n {
		return fmt.Errorf("expected %d units, got %d", n, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a catalog product "([^"]*)" priced (\d+)$`, tc.aCatalogProductPriced)
	ctx.Step(`^product "([^"]*)" has a "([^"]*)" size price of (\d+) discounted to (\d+)$`, tc.productHasSizePriceDiscounted)

	// When steps
	ctx.Step(`^the catalog price of "([^"]*)" changes to (\d+)$`, tc.theCatalogPriceChanges)
	ctx.Step(`^I add "([^"]*)" at "([^"]*)"$`, tc.iAdd)
	ctx.Step(`^I add "([^"]*)" at "([^"]*)" for (\d+)$`, tc.iAddFor)
	ctx.Step(`^I change the quantity of "([^"]*)" by (-?\d+)$`, tc.iChangeTheQuantity)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the "([^"]*)" "([^"]*)" line has quantity (\d+) and unit price (\d+)$`, tc.theLineHas)
	ctx.Step(`^the cart subtotal is (\d+)$`, tc.theCartSubtotalIs)
	ctx.Step(`^the cart holds (\d+) units$`, tc.theCartHoldsUnits)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
