package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bhargavi35/storefront/internal/discount"
	"github.com/bhargavi35/storefront/internal/domain"
	"github.com/bhargavi35/storefront/internal/store"
)

type DiscountHandler struct {
	registry *discount.Registry
	orders   store.OrderStore
}

func NewDiscountHandler(registry *discount.Registry, orders store.OrderStore) *DiscountHandler {
	return &DiscountHandler{registry: registry, orders: orders}
}

type AvailableDiscountsResponseDTO struct {
	Success            bool                       `json:"success"`
	AvailableDiscounts []domain.AvailableDiscount `json:"availableDiscounts"`
	NextDiscountAt     int64                      `json:"nextDiscountAt"`
	TotalOrders        int64                      `json:"totalOrders"`
}

type GenerateTestRequestDTO struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
}

type GenerateTestResponseDTO struct {
	Success      bool                 `json:"success"`
	DiscountCode *domain.DiscountCode `json:"discountCode"`
	Message      string               `json:"message"`
}

// Available lists unused codes plus how many orders remain until the
// next loyalty issuance (0 when the next completed order issues one).
func (h *DiscountHandler) Available(w http.ResponseWriter, r *http.Request) {
	available, err := h.registry.Available(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list discounts")
		return
	}

	totalOrders, err := h.orders.OrderCount(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to count orders")
		return
	}

	cadence := h.registry.Cadence()
	next := cadence - totalOrders%cadence
	if next == cadence {
		next = 0
	}

	respondJSON(w, http.StatusOK, AvailableDiscountsResponseDTO{
		Success:            true,
		AvailableDiscounts: available,
		NextDiscountAt:     next,
		TotalOrders:        totalOrders,
	})
}

// GenerateTest registers an explicit discount code (admin/test path).
func (h *DiscountHandler) GenerateTest(w http.ResponseWriter, r *http.Request) {
	var req GenerateTestRequestDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	dc, err := h.registry.Register(r.Context(), req.Code, req.DiscountPercent)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, GenerateTestResponseDTO{
		Success:      true,
		DiscountCode: dc,
		Message:      fmt.Sprintf("Test discount code %s generated successfully", dc.Code),
	})
}
