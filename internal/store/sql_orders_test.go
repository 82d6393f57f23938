package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhargavi35/storefront/internal/domain"
)

func setupSQLiteStore(t *testing.T) *SQLOrderStore {
	path := filepath.Join(t.TempDir(), "orders.db")
	s, err := NewSQLiteOrderStore(path, "../../migrations/sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLOrderStore_AppendOrder_ReturnsCount(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	count, err := s.AppendOrder(ctx, &domain.Order{
		ID:          "o1",
		UserID:      "u1",
		Items:       []domain.CartItem{{ProductID: "1", Quantity: 2, Price: 99.99}},
		Total:       199.98,
		FinalAmount: 199.98,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.AppendOrder(ctx, &domain.Order{
		ID:             "o2",
		UserID:         "u2",
		Items:          []domain.CartItem{{ProductID: "2", Quantity: 1, Price: 699.99}},
		Total:          699.99,
		DiscountCode:   "SAVE10",
		DiscountAmount: 69.999,
		FinalAmount:    629.991,
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSQLOrderStore_ListOrders_RoundTrip(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	_, err := s.AppendOrder(ctx, &domain.Order{
		ID:          "o1",
		UserID:      "u1",
		Items:       []domain.CartItem{{ProductID: "1", Quantity: 2, Price: 99.99}},
		Total:       199.98,
		FinalAmount: 199.98,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	_, err = s.AppendOrder(ctx, &domain.Order{
		ID:             "o2",
		UserID:         "u1",
		Items:          []domain.CartItem{{ProductID: "2", Quantity: 1, Price: 699.99}},
		Total:          699.99,
		DiscountCode:   "SAVE10",
		DiscountAmount: 69.999,
		FinalAmount:    629.991,
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "o1", orders[0].ID)
	assert.Empty(t, orders[0].DiscountCode)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "1", orders[0].Items[0].ProductID)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)

	assert.Equal(t, "o2", orders[1].ID)
	assert.Equal(t, "SAVE10", orders[1].DiscountCode)
	assert.InDelta(t, 629.991, orders[1].FinalAmount, 1e-9)
}

func TestSQLOrderStore_OrderCount_Empty(t *testing.T) {
	s := setupSQLiteStore(t)

	count, err := s.OrderCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSQLOrderStore_DuplicateOrderID(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	_, err := s.AppendOrder(ctx, &domain.Order{ID: "o1", UserID: "u1", Items: []domain.CartItem{}, CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = s.AppendOrder(ctx, &domain.Order{ID: "o1", UserID: "u1", Items: []domain.CartItem{}, CreatedAt: time.Now()})
	assert.Error(t, err)

	count, err := s.OrderCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
