package domain

import "time"

// DiscountCode is a single-use percent-off token. Once used it is never
// reset or reused.
type DiscountCode struct {
	Code              string     `json:"code"`
	DiscountPercent   float64    `json:"discountPercent"`
	IsUsed            bool       `json:"isUsed"`
	CreatedAt         time.Time  `json:"createdAt"`
	UsedAt            *time.Time `json:"usedAt,omitempty"`
	GeneratedForOrder int64      `json:"generatedForOrder,omitempty"`
	UsedByUserID      string     `json:"usedByUserId,omitempty"`
}

// AvailableDiscount is the caller-facing view of an unused code.
type AvailableDiscount struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
	IsEligible      bool    `json:"isEligible"`
}
