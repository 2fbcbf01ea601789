package models

import "time"

const (
	CouponPercent = "percent"
	CouponFlat    = "flat"
)

// Coupon as stored in the coupons collection. Value is a percentage
// (1-100) for percent coupons and a paise amount for flat coupons.
// MinOrder is paise; zero means no floor. MaxUses zero means unlimited.
type Coupon struct {
	CouponID  string     `json:"id" bson:"couponId"`
	Code      string     `json:"code" bson:"code"`
	Type      string     `json:"type" bson:"type"`
	Value     int64      `json:"value" bson:"value"`
	MinOrder  int64      `json:"minOrder,omitempty" bson:"minOrder,omitempty"`
	MaxUses   int        `json:"maxUses,omitempty" bson:"maxUses,omitempty"`
	UsesCount int        `json:"usesCount" bson:"usesCount"`
	IsActive  bool       `json:"isActive" bson:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
