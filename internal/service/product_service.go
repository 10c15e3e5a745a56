package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"redfragances/internal/domain"
	"redfragances/internal/pricing"
	"redfragances/internal/repository"
)

// ProductService is the catalog store: the product list plus its persisted document.
// Not safe for concurrent use on its own; Storefront serializes callers.
type ProductService struct {
	products []domain.Product
	doc      *repository.Document[[]domain.Product]
	logger   *zap.Logger
	newID    func() string
}

// NewProductService seeds the catalog from doc, which falls back to its own
// defaults when nothing usable is stored.
func NewProductService(ctx context.Context, doc *repository.Document[[]domain.Product], logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	products, status := doc.Load(ctx)
	logger.Info("catalog loaded", zap.Stringer("status", status), zap.Int("products", len(products)))
	return &ProductService{
		products: products,
		doc:      doc,
		logger:   logger,
		newID:    newProductID,
	}
}

func newProductID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "P-" + uuid.NewString()
	}
	return "P-" + id.String()
}

// ValidateProduct checks the fields an admin form must provide.
func ValidateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Brand) == "" || strings.TrimSpace(p.Image) == "" {
		return fmt.Errorf("%w: name, brand and image are required", ErrInvalidInput)
	}
	if p.Category != "" && !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}
	if p.Price < 0 || (p.DiscountPrice != nil && (*p.DiscountPrice < 0 || *p.DiscountPrice > p.Price)) {
		return fmt.Errorf("%w: price must be non-negative and discount at most the price", ErrInvalidInput)
	}
	if p.Rating < 0 || p.Rating > 5 || p.ReviewCount < 0 {
		return fmt.Errorf("%w: rating must be within 0..5", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(p.SizePrices))
	for _, sp := range p.SizePrices {
		if sp.Size == "" {
			return fmt.Errorf("%w: size label required", ErrInvalidInput)
		}
		if _, dup := seen[sp.Size]; dup {
			return fmt.Errorf("%w: duplicate size %q", ErrInvalidInput, sp.Size)
		}
		seen[sp.Size] = struct{}{}
		if sp.Price < 0 || (sp.DiscountPrice != nil && (*sp.DiscountPrice < 0 || *sp.DiscountPrice > sp.Price)) {
			return fmt.Errorf("%w: size %s price must be non-negative and discount at most the price", ErrInvalidInput, sp.Size)
		}
	}
	return nil
}

// normalize mirrors the default-size entry into the base price and fills the category.
func normalize(p domain.Product) domain.Product {
	cp := p.Clone()
	if cp.Category == "" {
		cp.Category = domain.CategoryUnisex
	}
	if entry, ok := cp.SizeEntry(pricing.DefaultSize); ok && entry.Price > 0 {
		cp.Price = entry.Price
		cp.DiscountPrice = nil
		if entry.DiscountPrice != nil {
			cp.DiscountPrice = domain.Int64(*entry.DiscountPrice)
		}
	}
	return cp
}

// List returns a copy of the catalog in stored order (newest additions first).
func (s *ProductService) List() []domain.Product {
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *ProductService) Len() int { return len(s.products) }

func (s *ProductService) Get(id string) (domain.Product, error) {
	i := s.index(id)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}
	return s.products[i].Clone(), nil
}

// Add validates p, assigns an id when missing and puts it at the head of the catalog.
func (s *ProductService) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := ValidateProduct(p); err != nil {
		return domain.Product{}, err
	}
	cp := normalize(p)
	if cp.ID == "" {
		cp.ID = s.newID()
	} else if s.index(cp.ID) >= 0 {
		return domain.Product{}, fmt.Errorf("%w: product %s", ErrConflict, cp.ID)
	}
	s.products = append([]domain.Product{cp}, s.products...)
	s.persist(ctx)
	return cp.Clone(), nil
}

// Update replaces the product with the same id in place.
func (s *ProductService) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := ValidateProduct(p); err != nil {
		return domain.Product{}, err
	}
	i := s.index(p.ID)
	if i < 0 {
		return domain.Product{}, ErrNotFound
	}
	cp := normalize(p)
	s.products[i] = cp
	s.persist(ctx)
	return cp.Clone(), nil
}

func (s *ProductService) Remove(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.persist(ctx)
	return nil
}

func (s *ProductService) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the catalog; a failure leaves the in-memory state authoritative.
func (s *ProductService) persist(ctx context.Context) {
	if err := s.doc.Save(ctx, s.products); err != nil {
		s.logger.Warn("persist catalog failed", zap.String("key", s.doc.Key()), zap.Error(err))
	}
}
