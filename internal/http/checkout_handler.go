package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bhargavi35/storefront/internal/checkout"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator}
}

type ValidateDiscountResponseDTO struct {
	Valid bool `json:"valid"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	result, err := h.orchestrator.ProcessCheckout(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	valid, err := h.orchestrator.ValidateDiscountCode(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", "failed to validate discount code")
		return
	}

	respondJSON(w, http.StatusOK, ValidateDiscountResponseDTO{Valid: valid})
}
