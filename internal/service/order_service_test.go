package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"redfragances/internal/cart"
	"redfragances/internal/domain"
	"redfragances/internal/locale"
	"redfragances/internal/pricing"
	"redfragances/internal/repository"
)

func ordersDoc(store repository.Store) *repository.Document[[]domain.Order] {
	return repository.NewDocument(store, repository.OrdersKey, func() []domain.Order { return []domain.Order{} },
		repository.WithSchema(repository.OrdersSchema()))
}

// fixedClock returns the same instant on every call.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func setupOS(t *testing.T, store repository.Store, now time.Time) *OrderService {
	t.Helper()
	f := locale.MustNew("es-ES", time.UTC)
	return NewOrderService(context.Background(), ordersDoc(store),
		WithClock(fixedClock(now)), WithDateFormat(f.FormatTime))
}

func product(id, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, Brand: "Dior", Price: price, Image: "i", Category: domain.CategoryMen}
}

func TestCheckout_ClearsCartAndPrependsOrder(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Date(2024, time.March, 9, 18, 4, 5, 0, time.UTC)
	os := setupOS(t, store, now)

	info := domain.CustomerInfo{Name: "Ana", Phone: "600", Email: "ana@example.com"}

	c := cart.New()
	c.Add(product("a", "Sauvage", 80), "50ml", pricing.Default())
	first := os.Checkout(ctx, c, info)
	priorOrders := os.List()

	c.Add(product("a", "Sauvage", 80), "50ml", pricing.Default())
	c.Add(product("a", "Sauvage", 80), "50ml", pricing.Default())
	c.Add(product("a", "Sauvage", 80), "50ml", pricing.Default())
	c.Add(product("b", "J'adore", 50), "50ml", pricing.Default())
	subtotal := c.Subtotal()
	if subtotal != 290 {
		t.Fatalf("precondition: subtotal %d", subtotal)
	}

	order := os.Checkout(ctx, c, info)

	if !c.Empty() {
		t.Fatalf("cart not cleared")
	}
	list := os.List()
	if len(list) != 2 || list[0].ID != order.ID {
		t.Fatalf("order not prepended: %+v", list)
	}
	if list[0].Total != subtotal {
		t.Fatalf("total %d, want %d", list[0].Total, subtotal)
	}
	if !reflect.DeepEqual(list[1:], priorOrders) {
		t.Fatalf("prior orders changed")
	}
	if first.ID == order.ID {
		t.Fatalf("order ids must be unique")
	}
	wantItems := []domain.OrderItem{{Name: "Sauvage", Size: "50ml", Quantity: 3}, {Name: "J'adore", Size: "50ml", Quantity: 1}}
	if !reflect.DeepEqual(order.Items, wantItems) {
		t.Fatalf("items %+v", order.Items)
	}
	if order.CustomerInfo != info {
		t.Fatalf("customer info not copied")
	}
	if order.Date != "9/3/2024, 18:04:05" {
		t.Fatalf("date %q", order.Date)
	}

	raw, err := store.Load(ctx, repository.OrdersKey)
	if err != nil {
		t.Fatalf("ledger not persisted: %v", err)
	}
	var stored []domain.Order
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) != 2 || stored[0].ID != order.ID {
		t.Fatalf("stored ledger %s (%v)", raw, err)
	}
}

func TestCheckout_IDsIncreaseWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)
	os := setupOS(t, repository.NewMemoryStore(), now)

	var ids []string
	for i := 0; i < 3; i++ {
		c := cart.New()
		c.Add(product("a", "Sauvage", 10), "50ml", pricing.Default())
		ids = append(ids, os.Checkout(ctx, c, domain.CustomerInfo{Name: "n", Phone: "p", Email: "e"}).ID)
	}
	want := []string{"ORD-1700000000000", "ORD-1700000000001", "ORD-1700000000002"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids %v", ids)
	}
}

func TestOrderService_SeedsAndContinuesIDs(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_ = store.Save(ctx, repository.OrdersKey, []byte(`[{"id":"ORD-5000","date":"d","name":"x","phone":"p","email":"e","items":[],"total":10}]`))

	os := setupOS(t, store, time.UnixMilli(4000))
	if len(os.List()) != 1 {
		t.Fatalf("expected seeded ledger")
	}
	c := cart.New()
	c.Add(product("a", "Sauvage", 10), "50ml", pricing.Default())
	if got := os.Checkout(ctx, c, domain.CustomerInfo{Name: "n", Phone: "p", Email: "e"}).ID; got != "ORD-5001" {
		t.Fatalf("id %s must follow the stored ones", got)
	}
}

func TestOrderService_MalformedLedgerFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_ = store.Save(ctx, repository.OrdersKey, []byte(`{"broken":`))

	os := setupOS(t, store, time.Now())
	if len(os.List()) != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestOrderService_Remove(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	os := setupOS(t, store, time.UnixMilli(1000))

	c := cart.New()
	c.Add(product("a", "Sauvage", 10), "50ml", pricing.Default())
	o := os.Checkout(ctx, c, domain.CustomerInfo{Name: "n", Phone: "p", Email: "e"})

	if _, err := os.Get(o.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := os.Remove(ctx, o.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(os.List()) != 0 {
		t.Fatalf("order not removed")
	}
	raw, _ := store.Load(ctx, repository.OrdersKey)
	if string(raw) != "[]" {
		t.Fatalf("removal not persisted: %s", raw)
	}
	if err := os.Remove(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
