package coupons

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"voltwear/models"
	"voltwear/pricing"
)

// Validation failures, surfaced as short uppercase strings the checkout UI
// shows verbatim. All are recoverable: the shopper just tries another code.
var (
	ErrInvalidCode  = errors.New("INVALID CODE")
	ErrInactiveCode = errors.New("INACTIVE CODE")
	ErrExpiredCode  = errors.New("EXPIRED CODE")
	ErrLimitReached = errors.New("LIMIT REACHED")
)

// MinOrderError carries the unmet floor so the message can show it.
type MinOrderError struct {
	MinOrder int64 // paise
}

func (e *MinOrderError) Error() string {
	return fmt.Sprintf("MIN. ORDER ₹%d REQUIRED", pricing.MajorUnits(e.MinOrder))
}

// Result is a successful validation: the coupon slice the cart stores, the
// discount in paise and a confirmation message.
type Result struct {
	Coupon   models.AppliedCoupon
	Discount int64
	Message  string
}

// NormalizeCode trims and uppercases; codes are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate runs the sequential checks against a fetched coupon record and
// computes the discount. It never inspects anything but its inputs, so the
// same coupon, subtotal and clock always produce the same result.
func Validate(c *models.Coupon, subtotal int64, now time.Time) (*Result, error) {
	if c == nil {
		return nil, ErrInvalidCode
	}
	if !c.IsActive {
		return nil, ErrInactiveCode
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return nil, ErrExpiredCode
	}
	if c.MinOrder > 0 && subtotal < c.MinOrder {
		return nil, &MinOrderError{MinOrder: c.MinOrder}
	}
	if c.MaxUses > 0 && c.UsesCount >= c.MaxUses {
		return nil, ErrLimitReached
	}

	discount := Discount(c, subtotal)
	message := fmt.Sprintf("₹%d OFF APPLIED!", pricing.MajorUnits(discount))
	if c.Type == models.CouponPercent {
		message = fmt.Sprintf("%d%% OFF APPLIED!", c.Value)
	}

	return &Result{
		Coupon: models.AppliedCoupon{
			ID:    c.CouponID,
			Code:  c.Code,
			Type:  c.Type,
			Value: c.Value,
		},
		Discount: discount,
		Message:  message,
	}, nil
}

// Discount computes the paise amount a coupon takes off a subtotal, capped
// at the subtotal so totals never go negative.
func Discount(c *models.Coupon, subtotal int64) int64 {
	var amount int64
	switch c.Type {
	case models.CouponPercent:
		amount = int64(math.Round(float64(subtotal) * float64(c.Value) / 100))
	case models.CouponFlat:
		amount = c.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
