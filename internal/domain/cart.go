package domain

// CartItem is a single line in a cart. Price is a snapshot of the
// product price taken when the item was added or last updated, never a
// live reference to the catalog.
type CartItem struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

type Cart struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	UserID         string     `json:"userId" bson:"user_id"`
	Items          []CartItem `json:"items" bson:"items"`
	Total          float64    `json:"total" bson:"total"`
	DiscountCode   string     `json:"discountCode,omitempty" bson:"discount_code,omitempty"`
	DiscountAmount float64    `json:"discountAmount" bson:"discount_amount"`
}

// EmptyCart returns the empty-cart shape for a user. Carts are created
// lazily on first access, so this is also the initial state.
func EmptyCart(userID string) *Cart {
	return &Cart{
		ID:     userID,
		UserID: userID,
		Items:  []CartItem{},
	}
}

// FindItem returns a pointer to the line for productID, or nil.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// SnapshotItems deep-copies the item list so later cart mutation cannot
// retroactively alter an order built from it.
func (c *Cart) SnapshotItems() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}
