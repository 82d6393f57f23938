package discount

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhargavi35/storefront/internal/domain"
	"github.com/bhargavi35/storefront/internal/store"
)

const (
	// LoyaltyCadence is the global order cadence: every Nth completed
	// checkout issues a fresh code.
	LoyaltyCadence int64 = 5

	// LoyaltyPercent is the percent-off carried by issued codes.
	LoyaltyPercent float64 = 10
)

// Registry tracks discount code records and owns loyalty issuance.
type Registry struct {
	store store.DiscountStore
}

func NewRegistry(s store.DiscountStore) *Registry {
	return &Registry{store: s}
}

func (r *Registry) Lookup(ctx context.Context, code string) (*domain.DiscountCode, error) {
	return r.store.GetDiscountCode(ctx, code)
}

// Register inserts an explicitly supplied code (the test/admin path).
// An empty code gets a generated TEST token, a non-positive percent
// falls back to the loyalty percent. Duplicate codes are rejected.
func (r *Registry) Register(ctx context.Context, code string, percent float64) (*domain.DiscountCode, error) {
	if code == "" {
		code = "TEST" + timeToken()
	}
	if percent <= 0 {
		percent = LoyaltyPercent
	}

	dc := &domain.DiscountCode{
		Code:            code,
		DiscountPercent: percent,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.store.AddDiscountCode(ctx, dc); err != nil {
		return nil, err
	}
	return dc, nil
}

// MarkUsed flips the code to used and stamps usage metadata. Absent
// codes are a no-op. A used code never becomes usable again.
func (r *Registry) MarkUsed(ctx context.Context, code, usedBy string) error {
	return r.store.MarkCodeUsed(ctx, code, time.Now().UTC(), usedBy)
}

// IsValid reports whether the code exists and is unused. Read-only, no
// side effects.
func (r *Registry) IsValid(ctx context.Context, code string) (bool, error) {
	dc, err := r.store.GetDiscountCode(ctx, code)
	if errors.Is(err, store.ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !dc.IsUsed, nil
}

// IssueLoyaltyCode generates, registers and returns a fresh loyalty
// code. The textual form keeps the coarse timestamp token and adds a
// UUID fragment so codes are collision-resistant at generation time.
func (r *Registry) IssueLoyaltyCode(ctx context.Context, orderCount int64) (string, error) {
	code := fmt.Sprintf("DISCOUNT%s%s", timeToken(), uniqueToken())
	dc := &domain.DiscountCode{
		Code:              code,
		DiscountPercent:   LoyaltyPercent,
		CreatedAt:         time.Now().UTC(),
		GeneratedForOrder: orderCount,
	}
	if err := r.store.AddDiscountCode(ctx, dc); err != nil {
		return "", err
	}
	return code, nil
}

func (r *Registry) List(ctx context.Context) ([]domain.DiscountCode, error) {
	return r.store.ListDiscountCodes(ctx)
}

// Available lists the unused codes as caller-facing records.
func (r *Registry) Available(ctx context.Context) ([]domain.AvailableDiscount, error) {
	codes, err := r.store.ListDiscountCodes(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]domain.AvailableDiscount, 0, len(codes))
	for _, dc := range codes {
		if dc.IsUsed {
			continue
		}
		available = append(available, domain.AvailableDiscount{
			Code:            dc.Code,
			DiscountPercent: dc.DiscountPercent,
			IsEligible:      true,
		})
	}
	return available, nil
}

func (r *Registry) Cadence() int64 {
	return LoyaltyCadence
}

func timeToken() string {
	return strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
}

func uniqueToken() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
