package domain

// AdminStats aggregates over every order ever created. Computed fresh
// on each request by folding over the order list.
type AdminStats struct {
	TotalItemsPurchased int            `json:"totalItemsPurchased"`
	TotalPurchaseAmount float64        `json:"totalPurchaseAmount"`
	DiscountCodes       []DiscountCode `json:"discountCodes"`
	TotalDiscountAmount float64        `json:"totalDiscountAmount"`
}
