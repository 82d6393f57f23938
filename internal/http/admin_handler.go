package http

import (
	"net/http"

	"github.com/bhargavi35/storefront/internal/admin"
	"github.com/bhargavi35/storefront/internal/discount"
)

type AdminHandler struct {
	stats    *admin.Service
	registry *discount.Registry
}

func NewAdminHandler(stats *admin.Service, registry *discount.Registry) *AdminHandler {
	return &AdminHandler{stats: stats, registry: registry}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.registry.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list discount codes")
		return
	}

	respondJSON(w, http.StatusOK, codes)
}
