package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Product  *ProductHandler
	Admin    *AdminHandler
	Discount *DiscountHandler
}

// NewRouter mounts the REST surface of the storefront core.
func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart/{userId}", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Post("/items", h.Cart.AddItem)
		r.Put("/items/{productId}", h.Cart.UpdateItem)
		r.Delete("/items/{productId}", h.Cart.RemoveItem)
		r.Post("/discount", h.Cart.ApplyDiscount)
		r.Delete("/discount", h.Cart.RemoveDiscount)
	})

	r.Post("/checkout/{userId}", h.Checkout.Checkout)
	r.Get("/discount/validate/{code}", h.Checkout.ValidateDiscount)

	r.Get("/discounts/available/{userId}", h.Discount.Available)
	r.Post("/discounts/generate-test", h.Discount.GenerateTest)

	r.Get("/admin/stats", h.Admin.Stats)
	r.Get("/admin/discount-codes", h.Admin.ListDiscountCodes)

	r.Get("/products", h.Product.List)

	return r
}
