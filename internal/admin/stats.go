package admin

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/bhargavi35/storefront/internal/domain"
	"github.com/bhargavi35/storefront/internal/store"
)

// Service computes storefront aggregates. Stats are folded fresh from
// the order list on every call, with singleflight collapsing concurrent
// recomputations.
type Service struct {
	orders    store.OrderStore
	discounts store.DiscountStore
	sfg       singleflight.Group
}

func NewService(orders store.OrderStore, discounts store.DiscountStore) *Service {
	return &Service{
		orders:    orders,
		discounts: discounts,
	}
}

func (s *Service) Stats(ctx context.Context) (*domain.AdminStats, error) {
	v, err, _ := s.sfg.Do("admin-stats", func() (interface{}, error) {
		orders, errList := s.orders.ListOrders(ctx)
		if errList != nil {
			return nil, errList
		}
		codes, errList := s.discounts.ListDiscountCodes(ctx)
		if errList != nil {
			return nil, errList
		}

		stats := &domain.AdminStats{
			DiscountCodes: codes,
		}
		for _, order := range orders {
			for _, item := range order.Items {
				stats.TotalItemsPurchased += item.Quantity
			}
			stats.TotalPurchaseAmount += order.Total
			stats.TotalDiscountAmount += order.DiscountAmount
		}
		return stats, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(*domain.AdminStats), nil
}
