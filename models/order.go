package models

import "time"

// Order is a finalized checkout. All amounts are paise.
type Order struct {
	OrderID        string    `json:"orderId" bson:"orderId"`
	UserID         string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Email          string    `json:"email" bson:"email"`
	FirstName      string    `json:"firstName" bson:"firstName"`
	LastName       string    `json:"lastName" bson:"lastName"`
	Address        string    `json:"address" bson:"address"`
	City           string    `json:"city" bson:"city"`
	State          string    `json:"state" bson:"state"`
	Pincode        string    `json:"pincode" bson:"pincode"`
	Phone          string    `json:"phone" bson:"phone"`
	ShippingMethod string    `json:"shippingMethod" bson:"shippingMethod"`
	Subtotal       int64     `json:"subtotal" bson:"subtotal"`
	ShippingCost   int64     `json:"shippingCost" bson:"shippingCost"`
	Discount       int64     `json:"discount" bson:"discount"`
	CouponCode     string    `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Total          int64     `json:"total" bson:"total"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderItem is one purchased line, denormalized from the cart at placement.
type OrderItem struct {
	OrderID     string `json:"orderId" bson:"orderId"`
	ProductID   string `json:"productId" bson:"productId"`
	ProductName string `json:"productName" bson:"productName"`
	Size        string `json:"size" bson:"size"`
	Quantity    int    `json:"quantity" bson:"quantity"`
	UnitPrice   int64  `json:"unitPrice" bson:"unitPrice"`
}

// IdempotencyRecord caches a mutating response under a client-chosen key.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	UserID      string                 `bson:"user_id"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}
