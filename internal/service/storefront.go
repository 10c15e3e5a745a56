package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"redfragances/internal/cart"
	"redfragances/internal/catalog"
	"redfragances/internal/domain"
	"redfragances/internal/metrics"
	"redfragances/internal/pricing"
)

// CartView is the cart as shown to the shopper
type CartView struct {
	Lines      []domain.CartLine `json:"lines"`
	Subtotal   int64             `json:"subtotal"`
	LineCount  int               `json:"lineCount"`
	TotalUnits int               `json:"totalUnits"`
}

// Storefront owns the application state (catalog, cart, ledger) and runs every
// operation on it under one lock.
type Storefront struct {
	mu       sync.Mutex
	products *ProductService
	orders   *OrderService
	cart     *cart.Cart
	admin    *AdminGate
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewStorefront(products *ProductService, orders *OrderService, admin *AdminGate, m *metrics.Metrics, logger *zap.Logger) *Storefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Storefront{
		products: products,
		orders:   orders,
		admin:    admin,
		metrics:  m,
		logger:   logger,
	}
	s.cart = cart.New(cart.WithAddHook(func(line domain.CartLine, merged bool) {
		m.CartAdd(merged)
		logger.Debug("cart line added",
			zap.String("product_id", line.Product.ID),
			zap.String("size", line.Size),
			zap.Int("quantity", line.Quantity),
			zap.Bool("merged", merged))
	}))
	m.CatalogSize(products.Len())
	return s
}

func (s *Storefront) Admin() *AdminGate { return s.admin }

// Products runs the catalog query over the current catalog.
func (s *Storefront) Products(spec catalog.Spec) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Query(s.products.List(), spec)
}

func (s *Storefront) Facets() catalog.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.FacetsOf(s.products.List())
}

func (s *Storefront) Product(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.Get(id)
}

// Quote prices one size of a product for the detail view; an empty size quotes every standard size.
func (s *Storefront) Quote(id, size string) ([]pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.products.Get(id)
	if err != nil {
		return nil, err
	}
	if size == "" {
		return pricing.QuoteAll(p), nil
	}
	return []pricing.Quote{pricing.QuoteFor(p, size)}, nil
}

func (s *Storefront) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Storefront) cartView() CartView {
	return CartView{
		Lines:      s.cart.Lines(),
		Subtotal:   s.cart.Subtotal(),
		LineCount:  s.cart.LineCount(),
		TotalUnits: s.cart.TotalUnits(),
	}
}

// AddToCart adds one unit of the catalog product. An empty size means the
// default size; a nil price lets the resolver choose.
func (s *Storefront) AddToCart(productID, size string, price *int64) (domain.CartLine, error) {
	if price != nil && *price < 0 {
		return domain.CartLine{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.products.Get(productID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if size == "" {
		size = pricing.DefaultSize
	}
	choice := pricing.Default()
	if price != nil {
		choice = pricing.Override(*price)
	}
	return s.cart.Add(p, size, choice), nil
}

// UpdateCartQuantity changes every line of the product by delta (floor 1).
func (s *Storefront) UpdateCartQuantity(productID string, delta int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.UpdateQuantity(cart.ProductKey(productID), delta) == 0 {
		return CartView{}, ErrNotFound
	}
	return s.cartView(), nil
}

// RemoveFromCart drops every line of the product, whatever its size.
func (s *Storefront) RemoveFromCart(productID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Remove(cart.ProductKey(productID)) == 0 {
		return CartView{}, ErrNotFound
	}
	return s.cartView(), nil
}

// Checkout validates the contact form and hands the cart to the ledger.
func (s *Storefront) Checkout(ctx context.Context, info domain.CustomerInfo) (domain.Order, error) {
	if !info.Complete() {
		return domain.Order{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Empty() {
		return domain.Order{}, ErrEmptyCart
	}
	units := s.cart.TotalUnits()
	order := s.orders.Checkout(ctx, s.cart, info)
	s.metrics.Checkout(order.Total, units)
	return order, nil
}

func (s *Storefront) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.products.Add(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.metrics.CatalogSize(s.products.Len())
	s.logger.Info("product added", zap.String("product_id", out.ID))
	return out, nil
}

func (s *Storefront) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.products.Update(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("product updated", zap.String("product_id", out.ID))
	return out, nil
}

// RemoveProduct deletes from the catalog only; cart lines keep their snapshot.
func (s *Storefront) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.products.Remove(ctx, id); err != nil {
		return err
	}
	s.metrics.CatalogSize(s.products.Len())
	s.logger.Info("product removed", zap.String("product_id", id))
	return nil
}

func (s *Storefront) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.List()
}

func (s *Storefront) RemoveOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.orders.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("order removed", zap.String("order_id", id))
	return nil
}
