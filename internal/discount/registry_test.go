package discount

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhargavi35/storefront/internal/store"
)

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(store.NewMemoryStore())
}

func TestRegister_StoresCode(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	dc, err := r.Register(ctx, "SAVE20", 20)
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", dc.Code)
	assert.Equal(t, float64(20), dc.DiscountPercent)
	assert.False(t, dc.IsUsed)

	got, err := r.Lookup(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", got.Code)
}

func TestRegister_DefaultsCodeAndPercent(t *testing.T) {
	r := setupRegistry(t)

	dc, err := r.Register(context.Background(), "", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dc.Code, "TEST"))
	assert.Equal(t, LoyaltyPercent, dc.DiscountPercent)
}

func TestRegister_DuplicateRejected(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	_, err := r.Register(ctx, "SAVE20", 20)
	require.NoError(t, err)

	_, err = r.Register(ctx, "SAVE20", 30)
	assert.ErrorIs(t, err, store.ErrDuplicateCode)

	// The original record is untouched.
	got, err := r.Lookup(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, float64(20), got.DiscountPercent)
}

func TestMarkUsed_StampsMetadata(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	_, err := r.Register(ctx, "SAVE20", 20)
	require.NoError(t, err)

	require.NoError(t, r.MarkUsed(ctx, "SAVE20", "user123"))

	got, err := r.Lookup(ctx, "SAVE20")
	require.NoError(t, err)
	assert.True(t, got.IsUsed)
	assert.Equal(t, "user123", got.UsedByUserID)
	require.NotNil(t, got.UsedAt)
	assert.WithinDuration(t, time.Now(), *got.UsedAt, time.Minute)
}

func TestMarkUsed_AbsentCodeIsNoOp(t *testing.T) {
	r := setupRegistry(t)

	assert.NoError(t, r.MarkUsed(context.Background(), "NOPE", "user123"))
}

func TestIsValid(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	valid, err := r.IsValid(ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = r.Register(ctx, "SAVE20", 20)
	require.NoError(t, err)

	valid, err = r.IsValid(ctx, "SAVE20")
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, r.MarkUsed(ctx, "SAVE20", "user123"))

	valid, err = r.IsValid(ctx, "SAVE20")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestIssueLoyaltyCode_FormatAndRecord(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	code, err := r.IssueLoyaltyCode(ctx, 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "DISCOUNT"))
	assert.Greater(t, len(code), len("DISCOUNT"))
	assert.Equal(t, strings.ToUpper(code), code)

	got, err := r.Lookup(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, LoyaltyPercent, got.DiscountPercent)
	assert.Equal(t, int64(5), got.GeneratedForOrder)
	assert.False(t, got.IsUsed)
}

func TestIssueLoyaltyCode_Unique(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := int64(1); i <= 20; i++ {
		code, err := r.IssueLoyaltyCode(ctx, i*5)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code issued: %s", code)
		seen[code] = true
	}
}

func TestAvailable_ExcludesUsedCodes(t *testing.T) {
	r := setupRegistry(t)
	ctx := context.Background()

	_, err := r.Register(ctx, "FRESH", 10)
	require.NoError(t, err)
	_, err = r.Register(ctx, "SPENT", 15)
	require.NoError(t, err)
	require.NoError(t, r.MarkUsed(ctx, "SPENT", "user123"))

	available, err := r.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "FRESH", available[0].Code)
	assert.Equal(t, float64(10), available[0].DiscountPercent)
	assert.True(t, available[0].IsEligible)
}
