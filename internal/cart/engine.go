package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/bhargavi35/storefront/internal/cache"
	"github.com/bhargavi35/storefront/internal/domain"
	"github.com/bhargavi35/storefront/internal/keylock"
	"github.com/bhargavi35/storefront/internal/store"
)

var ErrInvalidDiscount = errors.New("invalid or already used discount code")

// Engine owns all per-user cart mutation. Every mutating operation runs
// under the user's keyed mutex so concurrent read-modify-write cycles
// on the same cart never interleave.
type Engine struct {
	catalog   store.CatalogStore
	carts     store.CartStore
	discounts store.DiscountStore
	cache     cache.CartCache // optional, nil disables caching
	locks     *keylock.KeyedMutex
	sfg       singleflight.Group // Prevents cache stampede
}

func NewEngine(catalog store.CatalogStore, carts store.CartStore, discounts store.DiscountStore, cartCache cache.CartCache, locks *keylock.KeyedMutex) *Engine {
	return &Engine{
		catalog:   catalog,
		carts:     carts,
		discounts: discounts,
		cache:     cartCache,
		locks:     locks,
	}
}

// GetCart returns the user's cart, lazily materializing the empty-cart
// shape for users that have none. It never fails on an absent cart.
func (e *Engine) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := e.sfg.Do(userID, func() (interface{}, error) {
		if e.cache != nil {
			cart, errGet := e.cache.Get(ctx, userID)
			if errGet == nil {
				return cart, nil
			}
			if !errors.Is(errGet, cache.ErrCacheMiss) {
				log.Printf("cache get error: %v", errGet) // log cache error but continue
			}
		}

		// The fill runs under the user's lock so a concurrent mutation
		// cannot invalidate between the store read and the cache write,
		// which would pin a stale cart until TTL.
		unlock := e.locks.Lock(userID)
		defer unlock()

		cart, errGet := e.carts.GetCart(ctx, userID)
		if errors.Is(errGet, store.ErrCartNotFound) {
			return domain.EmptyCart(userID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		if e.cache != nil {
			if errSet := e.cache.Set(ctx, userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddToCart appends a new line or sums quantities onto an existing one.
// The stock check compares against the product's absolute catalog
// stock, not stock minus quantity already in the cart.
func (e *Engine) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w for product: %s", store.ErrInsufficientStock, product.Name)
	}

	cart, err := e.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if item := cart.FindItem(productID); item != nil {
		item.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	return cart, e.saveCart(ctx, cart)
}

// UpdateCartItem sets (not increments) the line's quantity and
// re-snapshots its price from the current catalog price. A quantity of
// zero or less degrades to RemoveFromCart.
func (e *Engine) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return e.RemoveFromCart(ctx, userID, productID)
	}

	unlock := e.locks.Lock(userID)
	defer unlock()

	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w for product: %s", store.ErrInsufficientStock, product.Name)
	}

	cart, err := e.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if item := cart.FindItem(productID); item != nil {
		item.Quantity = quantity
		item.Price = product.Price
	}

	return cart, e.saveCart(ctx, cart)
}

// RemoveFromCart drops the line if present. Removing an absent product
// is not an error.
func (e *Engine) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	cart, err := e.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	return cart, e.saveCart(ctx, cart)
}

// ApplyDiscountCode attaches a known unused code and computes the
// discount against the cart's current total.
func (e *Engine) ApplyDiscountCode(ctx context.Context, userID, code string) (*domain.Cart, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	dc, err := e.discounts.GetDiscountCode(ctx, code)
	if errors.Is(err, store.ErrCodeNotFound) {
		return nil, ErrInvalidDiscount
	}
	if err != nil {
		return nil, err
	}
	if dc.IsUsed {
		return nil, ErrInvalidDiscount
	}

	cart, err := e.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.DiscountCode = code
	cart.DiscountAmount = cart.Total * (dc.DiscountPercent / 100)

	return cart, e.saveCart(ctx, cart)
}

// RemoveDiscountCode detaches any applied code; idempotent.
func (e *Engine) RemoveDiscountCode(ctx context.Context, userID string) (*domain.Cart, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	cart, err := e.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.DiscountCode = ""
	cart.DiscountAmount = 0

	return cart, e.saveCart(ctx, cart)
}

// ClearCart resets the user's cart to the empty shape.
func (e *Engine) ClearCart(ctx context.Context, userID string) error {
	unlock := e.locks.Lock(userID)
	defer unlock()

	return e.ResetCart(ctx, userID)
}

// ResetCart writes the empty-cart shape without taking the user's lock.
// The keyed mutex is not reentrant; callers already holding the user's
// lock go through here, everyone else through ClearCart.
func (e *Engine) ResetCart(ctx context.Context, userID string) error {
	if err := e.carts.UpsertCart(ctx, domain.EmptyCart(userID)); err != nil {
		return err
	}
	e.invalidateCache(userID)
	return nil
}

func (e *Engine) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := e.carts.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return domain.EmptyCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// saveCart recomputes derived pricing, persists the cart and drops any
// cached copy. Every mutating operation funnels through here so totals
// and discount amounts stay consistent after each mutation.
func (e *Engine) saveCart(ctx context.Context, cart *domain.Cart) error {
	e.recalculate(ctx, cart)
	if err := e.carts.UpsertCart(ctx, cart); err != nil {
		return err
	}
	e.invalidateCache(cart.UserID)
	return nil
}

// recalculate recomputes the total from scratch and, when a discount is
// attached and still resolves in the registry, re-derives the discount
// amount from the fresh total. Usability is not re-validated here; that
// only happens on initial apply.
func (e *Engine) recalculate(ctx context.Context, cart *domain.Cart) {
	total := 0.0
	for _, item := range cart.Items {
		total += item.Price * float64(item.Quantity)
	}
	cart.Total = total

	if cart.DiscountCode == "" {
		return
	}
	dc, err := e.discounts.GetDiscountCode(ctx, cart.DiscountCode)
	if err != nil {
		if !errors.Is(err, store.ErrCodeNotFound) {
			log.Printf("discount lookup error: %v", err)
		}
		return
	}
	cart.DiscountAmount = cart.Total * (dc.DiscountPercent / 100)
}

func (e *Engine) invalidateCache(userID string) {
	if e.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
