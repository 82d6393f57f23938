package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bhargavi35/storefront/internal/domain"
)

// MemoryStore implements every store interface with in-memory storage.
// All accessors copy on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	products   map[string]*domain.Product
	productIDs []string // preserves seeding order for listings
	carts      map[string]*domain.Cart
	orders     []domain.Order
	codes      []domain.DiscountCode // slice keeps issuance order, lookup is first-match
	orderCount int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*domain.Product),
		carts:    make(map[string]*domain.Cart),
	}
}

// DefaultCatalog returns the demo product set the server seeds on boot.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Wireless Headphones", Price: 99.99, Description: "High-quality wireless headphones with noise cancellation", Image: "/images/headphones.jpg", Stock: 50},
		{ID: "2", Name: "Smartphone", Price: 699.99, Description: "Latest smartphone with advanced features", Image: "/images/smartphone.jpg", Stock: 30},
		{ID: "3", Name: "Laptop", Price: 1299.99, Description: "Powerful laptop for work and gaming", Image: "/images/laptop.jpg", Stock: 20},
		{ID: "4", Name: "Smart Watch", Price: 199.99, Description: "Feature-rich smartwatch with health monitoring", Image: "/images/smartwatch.jpg", Stock: 40},
	}
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := *product
	return &p, nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.productIDs))
	for _, id := range s.productIDs {
		result = append(result, *s.products[id])
	}
	return result, nil
}

func (s *MemoryStore) SaveProduct(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		s.productIDs = append(s.productIDs, product.ID)
	}
	p := *product
	s.products[product.ID] = &p
	return nil
}

func (s *MemoryStore) ValidateStock(_ context.Context, items []domain.CartItem) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkStock(items)
}

// DecrementStock validates all lines and commits the decrements under a
// single lock acquisition so no partial commit is ever observable.
func (s *MemoryStore) DecrementStock(_ context.Context, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate all items against live stock
	if err := s.checkStock(items); err != nil {
		return err
	}

	// Second pass: commit
	for _, item := range items {
		s.products[item.ProductID].Stock -= item.Quantity
	}
	return nil
}

func (s *MemoryStore) checkStock(items []domain.CartItem) error {
	for _, item := range items {
		product, ok := s.products[item.ProductID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if product.Stock < item.Quantity {
			return fmt.Errorf("%w for product: %s", ErrInsufficientStock, product.Name)
		}
	}
	return nil
}

func (s *MemoryStore) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) UpsertCart(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) AppendOrder(_ context.Context, order *domain.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *order
	o.Items = make([]domain.CartItem, len(order.Items))
	copy(o.Items, order.Items)
	s.orders = append(s.orders, o)
	s.orderCount++
	return s.orderCount, nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, len(s.orders))
	copy(result, s.orders)
	return result, nil
}

func (s *MemoryStore) OrderCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderCount, nil
}

func (s *MemoryStore) GetDiscountCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.codes {
		if s.codes[i].Code == code {
			dc := s.codes[i]
			return &dc, nil
		}
	}
	return nil, ErrCodeNotFound
}

func (s *MemoryStore) ListDiscountCodes(_ context.Context) ([]domain.DiscountCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DiscountCode, len(s.codes))
	copy(result, s.codes)
	return result, nil
}

func (s *MemoryStore) AddDiscountCode(_ context.Context, code *domain.DiscountCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.codes {
		if s.codes[i].Code == code.Code {
			return ErrDuplicateCode
		}
	}
	s.codes = append(s.codes, *code)
	return nil
}

func (s *MemoryStore) MarkCodeUsed(_ context.Context, code string, usedAt time.Time, usedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.codes {
		if s.codes[i].Code == code {
			s.codes[i].IsUsed = true
			s.codes[i].UsedAt = &usedAt
			s.codes[i].UsedByUserID = usedBy
			return nil
		}
	}
	return nil
}

func copyCart(cart *domain.Cart) *domain.Cart {
	c := *cart
	c.Items = make([]domain.CartItem, len(cart.Items))
	copy(c.Items, cart.Items)
	return &c
}
