package http

import (
	"net/http"

	"github.com/bhargavi35/storefront/internal/store"
)

type ProductHandler struct {
	catalog store.CatalogStore
}

func NewProductHandler(catalog store.CatalogStore) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}
