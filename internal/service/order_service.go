package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"redfragances/internal/cart"
	"redfragances/internal/domain"
	"redfragances/internal/repository"
)

const orderIDPrefix = "ORD-"

// OrderService is the order ledger: finalized checkouts, newest first.
type OrderService struct {
	orders []domain.Order
	doc    *repository.Document[[]domain.Order]
	logger *zap.Logger
	now    func() time.Time
	date   func(time.Time) string
	lastID int64
}

// OrderOption configures an OrderService
type OrderOption func(*OrderService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDateFormat sets how the order date is rendered.
func WithDateFormat(format func(time.Time) string) OrderOption {
	return func(s *OrderService) {
		if format != nil {
			s.date = format
		}
	}
}

func WithOrderLogger(l *zap.Logger) OrderOption {
	return func(s *OrderService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewOrderService(ctx context.Context, doc *repository.Document[[]domain.Order], opts ...OrderOption) *OrderService {
	s := &OrderService{
		doc:    doc,
		logger: zap.NewNop(),
		now:    time.Now,
		date:   func(t time.Time) string { return t.Format(time.DateTime) },
	}
	for _, opt := range opts {
		opt(s)
	}
	orders, status := doc.Load(ctx)
	s.orders = orders
	for _, o := range orders {
		if n, ok := parseOrderID(o.ID); ok && n > s.lastID {
			s.lastID = n
		}
	}
	s.logger.Info("orders loaded", zap.Stringer("status", status), zap.Int("orders", len(orders)))
	return s
}

func parseOrderID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, orderIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	return n, err == nil
}

// nextID is ORD-<unix ms>, bumped past the previous id when the clock has not moved on.
func (s *OrderService) nextID(at time.Time) string {
	n := at.UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	s.lastID = n
	return orderIDPrefix + strconv.FormatInt(n, 10)
}

// Checkout turns the cart into an order, records it at the head of the ledger,
// persists the ledger and clears the cart. The caller has already validated info.
func (s *OrderService) Checkout(ctx context.Context, c *cart.Cart, info domain.CustomerInfo) domain.Order {
	at := s.now()
	lines := c.Lines()
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{Name: l.Product.Name, Size: l.Size, Quantity: l.Quantity})
	}
	order := domain.Order{
		ID:           s.nextID(at),
		Date:         s.date(at),
		CustomerInfo: info,
		Items:        items,
		Total:        c.Subtotal(),
	}

	s.orders = append([]domain.Order{order}, s.orders...)
	s.persist(ctx)
	c.Clear()

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Total),
		zap.Int("lines", len(items)))
	return order.Clone()
}

// List returns the ledger newest first.
func (s *OrderService) List() []domain.Order {
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return domain.Order{}, ErrNotFound
}

// Remove deletes an order by id and persists the ledger.
func (s *OrderService) Remove(ctx context.Context, id string) error {
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (s *OrderService) persist(ctx context.Context) {
	if err := s.doc.Save(ctx, s.orders); err != nil {
		s.logger.Warn("persist orders failed", zap.String("key", s.doc.Key()), zap.Error(err))
	}
}
