package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bhargavi35/storefront/internal/cart"
	"github.com/bhargavi35/storefront/internal/discount"
	"github.com/bhargavi35/storefront/internal/domain"
	"github.com/bhargavi35/storefront/internal/keylock"
	"github.com/bhargavi35/storefront/internal/store"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// Publisher pushes order-completed events somewhere downstream.
// Consumers define this interface, not the Kafka implementation.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, order *domain.Order) error
}

// Result is what a successful checkout returns: the created order and,
// on every Nth order system-wide, a freshly issued discount code.
type Result struct {
	Order        *domain.Order `json:"order"`
	DiscountCode string        `json:"discountCode,omitempty"`
}

// Orchestrator converts carts into orders. Stock validate+commit, order
// append, counter read, discount settling and loyalty issuance all run
// inside one exclusive section so concurrent checkouts can neither
// oversell nor race the issuance cadence. The whole checkout
// additionally holds the user's keyed mutex, shared with the cart
// engine, so a duplicated checkout request or a racing cart mutation
// cannot observe the cart between read and clear.
type Orchestrator struct {
	catalog  store.CatalogStore
	carts    store.CartStore
	orders   store.OrderStore
	registry *discount.Registry
	engine   *cart.Engine
	locks    *keylock.KeyedMutex
	events   Publisher // optional, nil disables publishing

	mu             sync.Mutex
	publishTimeout time.Duration
}

func NewOrchestrator(catalog store.CatalogStore, carts store.CartStore, orders store.OrderStore, registry *discount.Registry, engine *cart.Engine, locks *keylock.KeyedMutex, events Publisher) *Orchestrator {
	return &Orchestrator{
		catalog:        catalog,
		carts:          carts,
		orders:         orders,
		registry:       registry,
		engine:         engine,
		locks:          locks,
		events:         events,
		publishTimeout: 5 * time.Second,
	}
}

// ProcessCheckout runs the checkout state machine for the user's cart.
// Validation failures abort before any mutation.
func (o *Orchestrator) ProcessCheckout(ctx context.Context, userID string) (*Result, error) {
	status := domain.CheckoutStatusInitiated
	advance := func(next domain.CheckoutStatus) error {
		if !domain.CanTransitionTo(status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, status, next)
		}
		status = next
		return nil
	}

	// Holding the user's lock from cart read through cart clear makes
	// checkout atomic against a duplicated request and against cart
	// mutations: the second checkout sees the cleared cart, not a
	// chance to commit the same items twice.
	unlock := o.locks.Lock(userID)
	defer unlock()

	userCart, err := o.carts.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(userCart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	o.mu.Lock()
	order, issued, err := o.commit(ctx, userCart, userID, advance)
	o.mu.Unlock()
	if err != nil {
		log.Printf("checkout failed for user %s at status %s: %v", userID, status, err)
		return nil, err
	}

	// The order is committed at this point. A failed cart clear leaves
	// a stale cart behind but never undoes the purchase.
	if errClear := o.engine.ResetCart(ctx, userID); errClear != nil {
		log.Printf("failed to clear cart for user %s after checkout %s: %v", userID, order.ID, errClear)
	}
	if errAdv := advance(domain.CheckoutStatusCartCleared); errAdv != nil {
		return nil, errAdv
	}
	if errAdv := advance(domain.CheckoutStatusCompleted); errAdv != nil {
		return nil, errAdv
	}

	o.publish(order)

	return &Result{Order: order, DiscountCode: issued}, nil
}

// commit performs the mutating steps of checkout. Caller holds o.mu.
func (o *Orchestrator) commit(ctx context.Context, userCart *domain.Cart, userID string, advance func(domain.CheckoutStatus) error) (*domain.Order, string, error) {
	// Authoritative stock check; stock may have moved since add-time.
	if err := o.catalog.ValidateStock(ctx, userCart.Items); err != nil {
		return nil, "", err
	}
	if err := advance(domain.CheckoutStatusStockValidated); err != nil {
		return nil, "", err
	}

	if err := o.catalog.DecrementStock(ctx, userCart.Items); err != nil {
		return nil, "", err
	}
	if err := advance(domain.CheckoutStatusStockCommitted); err != nil {
		return nil, "", err
	}

	order := &domain.Order{
		ID:             uuid.New().String(),
		UserID:         userID,
		Items:          userCart.SnapshotItems(),
		Total:          userCart.Total,
		DiscountCode:   userCart.DiscountCode,
		DiscountAmount: userCart.DiscountAmount,
		FinalAmount:    userCart.Total - userCart.DiscountAmount, // unclamped, may go negative
		CreatedAt:      time.Now().UTC(),
	}

	count, err := o.orders.AppendOrder(ctx, order)
	if err != nil {
		return nil, "", err
	}
	if err := advance(domain.CheckoutStatusOrderCreated); err != nil {
		return nil, "", err
	}

	if userCart.DiscountCode != "" {
		if errMark := o.registry.MarkUsed(ctx, userCart.DiscountCode, userID); errMark != nil {
			// Stock and order are already committed; the code staying
			// usable is the lesser inconsistency.
			log.Printf("failed to mark discount code %s used: %v", userCart.DiscountCode, errMark)
		}
	}
	if err := advance(domain.CheckoutStatusDiscountSettled); err != nil {
		return nil, "", err
	}

	var issued string
	if count%o.registry.Cadence() == 0 {
		code, errIssue := o.registry.IssueLoyaltyCode(ctx, count)
		if errIssue != nil {
			log.Printf("failed to issue loyalty code for order %d: %v", count, errIssue)
		} else {
			issued = code
		}
	}

	return order, issued, nil
}

// ValidateDiscountCode is a read-only pre-check with no side effects.
func (o *Orchestrator) ValidateDiscountCode(ctx context.Context, code string) (bool, error) {
	return o.registry.IsValid(ctx, code)
}

func (o *Orchestrator) publish(order *domain.Order) {
	if o.events == nil {
		return
	}
	ord := *order
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.publishTimeout)
		defer cancel()
		if err := o.events.PublishOrderCompleted(ctx, &ord); err != nil {
			log.Printf("failed to publish order event for %s: %v", ord.ID, err)
		}
	}()
}
