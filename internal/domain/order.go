package domain

import "time"

// Order is the immutable record of a completed checkout. FinalAmount is
// total minus discount, deliberately unclamped: a discount computed
// against a then-larger total can drive it negative.
type Order struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Items          []CartItem `json:"items"`
	Total          float64    `json:"total"`
	DiscountCode   string     `json:"discountCode,omitempty"`
	DiscountAmount float64    `json:"discountAmount"`
	FinalAmount    float64    `json:"finalAmount"`
	CreatedAt      time.Time  `json:"createdAt"`
}
