package store

import (
	"context"
	"errors"
	"time"

	"github.com/bhargavi35/storefront/internal/domain"
)

// Common errors returned by the stores
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCodeNotFound      = errors.New("discount code not found")
	ErrDuplicateCode     = errors.New("discount code already exists")
)

// CatalogStore is the core's view of product records. Stock is mutated
// only through DecrementStock; everything else is read-only.
type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// SaveProduct inserts or replaces a product record (seeding path).
	SaveProduct(ctx context.Context, product *domain.Product) error

	// ValidateStock checks every line against live stock without
	// mutating anything.
	ValidateStock(ctx context.Context, items []domain.CartItem) error

	// DecrementStock validates all lines and commits the decrements as
	// one atomic step. On error no stock has changed.
	DecrementStock(ctx context.Context, items []domain.CartItem) error
}

// CartStore holds per-user carts keyed by user id.
// Consumers define this interface, not the implementations.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
}

// OrderStore is an append-only collection of completed orders plus the
// process-wide order counter.
type OrderStore interface {
	// AppendOrder stores the order, increments the order counter and
	// returns the post-increment count.
	AppendOrder(ctx context.Context, order *domain.Order) (int64, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	OrderCount(ctx context.Context) (int64, error)
}

// DiscountStore tracks discount code records.
type DiscountStore interface {
	GetDiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	ListDiscountCodes(ctx context.Context) ([]domain.DiscountCode, error)

	// AddDiscountCode rejects an already-registered code with
	// ErrDuplicateCode.
	AddDiscountCode(ctx context.Context, code *domain.DiscountCode) error

	// MarkCodeUsed flips the first matching record and stamps usage
	// metadata; no-op when the code is absent.
	MarkCodeUsed(ctx context.Context, code string, usedAt time.Time, usedBy string) error
}
