package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhargavi35/storefront/internal/domain"
)

type flakyCache struct {
	mu   sync.Mutex
	cart *domain.Cart
	err  error
}

func (f *flakyCache) Get(context.Context, string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.cart == nil {
		return nil, ErrCacheMiss
	}
	return f.cart, nil
}

func (f *flakyCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.cart = cart
	return nil
}

func (f *flakyCache) Delete(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.cart = nil
	return nil
}

func TestBreakerCache_PassesThrough(t *testing.T) {
	inner := &flakyCache{}
	b := NewBreakerCache(inner)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "u1", domain.EmptyCart("u1")))

	cart, err := b.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)

	require.NoError(t, b.Delete(ctx, "u1"))
	_, err = b.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestBreakerCache_MissesDoNotTrip(t *testing.T) {
	inner := &flakyCache{}
	b := NewBreakerCache(inner)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := b.Get(ctx, "u1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	}

	// Still closed: a real value flows through.
	require.NoError(t, b.Set(ctx, "u1", domain.EmptyCart("u1")))
	_, err := b.Get(ctx, "u1")
	assert.NoError(t, err)
}

func TestBreakerCache_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyCache{err: errors.New("redis down")}
	b := NewBreakerCache(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.Get(ctx, "u1")
		assert.EqualError(t, err, "redis down")
	}

	// Breaker is open now; the backend recovers but calls short-circuit
	// to a cache miss until the breaker times out.
	inner.mu.Lock()
	inner.err = nil
	inner.mu.Unlock()

	_, err := b.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Writes are swallowed while open rather than surfacing breaker noise.
	assert.NoError(t, b.Set(ctx, "u1", domain.EmptyCart("u1")))
	assert.NoError(t, b.Delete(ctx, "u1"))
}
