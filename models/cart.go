package models

import "time"

// CartLineItem is a single (product, size) line in a cart.
// CartItemID is the merge key: adding the same product+size again
// increments Quantity instead of appending a duplicate line.
type CartLineItem struct {
	CartItemID string `json:"cartItemId" bson:"cartItemId"`
	ProductID  string `json:"productId" bson:"productId"`
	Name       string `json:"name" bson:"name"`
	Size       string `json:"size" bson:"size"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	Price      int64  `json:"price" bson:"price"` // unit price in paise
	Image      string `json:"image,omitempty" bson:"image,omitempty"`
	Category   string `json:"category,omitempty" bson:"category,omitempty"`
}

// LineItemID derives the merge key for a product and size.
func LineItemID(productID, size string) string {
	return productID + "-" + size
}

// CartRow is the remote copy of one line item, keyed by (userId, cartItemId).
type CartRow struct {
	UserID       string    `json:"userId" bson:"userId"`
	CartLineItem `bson:",inline"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AppliedCoupon is the slice of a coupon the cart keeps after validation.
type AppliedCoupon struct {
	ID    string `json:"id" bson:"id"`
	Code  string `json:"code" bson:"code"`
	Type  string `json:"type" bson:"type"`
	Value int64  `json:"value" bson:"value"`
}

// CartSession is the session-scoped cart state. It is persisted to Redis
// under the browsing-session key so anonymous carts survive reloads, and
// reconciled against the cart_items collection on login.
type CartSession struct {
	SessionID string         `json:"sessionId" bson:"sessionId"`
	UserID    string         `json:"userId,omitempty" bson:"userId,omitempty"`
	Items     []CartLineItem `json:"items" bson:"items"`
	IsOpen    bool           `json:"isOpen" bson:"isOpen"`
	Coupon    *AppliedCoupon `json:"appliedCoupon,omitempty" bson:"appliedCoupon,omitempty"`
	Discount  int64          `json:"discount" bson:"discount"`
}
