package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Load when nothing is stored under the key
var ErrNotFound = errors.New("not found")

// ErrInvalidKey rejects keys a backend cannot address
var ErrInvalidKey = errors.New("invalid key")

// Keys the storefront persists under. They match the browser build so stored
// data can be migrated as-is.
const (
	CatalogKey = "redfragances_products"
	OrdersKey  = "redfragances_orders"
)

// Store persists JSON documents by key. Load returns ErrNotFound when absent.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
