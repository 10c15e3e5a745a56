package domain

import "strings"

// Category audience of a fragrance
type Category string

const (
	CategoryMen    Category = "Men"
	CategoryWomen  Category = "Women"
	CategoryUnisex Category = "Unisex"
)

// Valid reports whether c is one of the three audience categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryUnisex:
		return true
	}
	return false
}

// SizePrice administrator-configured price for one size label
type SizePrice struct {
	Size          string `json:"size"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice,omitempty"`
}

// Effective returns discountPrice ?? price for the entry.
func (s SizePrice) Effective() int64 {
	if s.DiscountPrice != nil {
		return *s.DiscountPrice
	}
	return s.Price
}

// Product is a catalog fragrance. JSON field names match the persisted catalog.
type Product struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Brand         string      `json:"brand"`
	Price         int64       `json:"price"`
	DiscountPrice *int64      `json:"discountPrice,omitempty"`
	Rating        float64     `json:"rating"`
	ReviewCount   int         `json:"reviewCount"`
	Notes         []string    `json:"notes"`
	Family        string      `json:"family"`
	Category      Category    `json:"category"`
	Image         string      `json:"image"`
	IsNew         bool        `json:"isNew,omitempty"`
	Description   string      `json:"description,omitempty"`
	SizePrices    []SizePrice `json:"sizePrices,omitempty"`
}

// ListPrice is discountPrice ?? price. Display, filtering and sorting all use it.
func (p Product) ListPrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// SizeEntry looks up the size price table entry for label.
func (p Product) SizeEntry(label string) (SizePrice, bool) {
	for _, sp := range p.SizePrices {
		if sp.Size == label {
			return sp, true
		}
	}
	return SizePrice{}, false
}

// Clone returns a deep copy so a snapshot never aliases catalog memory.
func (p Product) Clone() Product {
	cp := p
	if p.DiscountPrice != nil {
		cp.DiscountPrice = Int64(*p.DiscountPrice)
	}
	if p.Notes != nil {
		cp.Notes = append([]string(nil), p.Notes...)
	}
	if p.SizePrices != nil {
		cp.SizePrices = make([]SizePrice, len(p.SizePrices))
		for i, sp := range p.SizePrices {
			cp.SizePrices[i] = sp
			if sp.DiscountPrice != nil {
				cp.SizePrices[i].DiscountPrice = Int64(*sp.DiscountPrice)
			}
		}
	}
	return cp
}

// CartLine one product+size entry in the cart with a frozen unit price
type CartLine struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"selectedSize"`
	UnitPrice int64   `json:"unitPrice"`
}

// LineTotal unit price times quantity
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// CustomerInfo contact data captured by the checkout form
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Complete reports whether name, phone and email are all non-blank.
func (c CustomerInfo) Complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Email) != ""
}

// OrderItem line summary kept on an order; prices are not retained per line
type OrderItem struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Order finalized checkout. Customer fields are flattened into the persisted object.
type Order struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	CustomerInfo
	Items []OrderItem `json:"items"`
	Total int64       `json:"total"`
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	cp := o
	if o.Items != nil {
		cp.Items = append([]OrderItem(nil), o.Items...)
	}
	return cp
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }
