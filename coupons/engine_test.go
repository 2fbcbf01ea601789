package coupons

import (
	"errors"
	"testing"
	"time"

	"voltwear/models"
)

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		CouponID: "c1",
		Code:     "SAVE20",
		Type:     models.CouponPercent,
		Value:    20,
		IsActive: true,
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  save20 "); got != "SAVE20" {
		t.Fatalf("NormalizeCode = %q", got)
	}
	if got := NormalizeCode("   "); got != "" {
		t.Fatalf("NormalizeCode on blanks = %q", got)
	}
}

func TestValidatePercent(t *testing.T) {
	// SAVE20 on a 1000-rupee subtotal takes off 200 rupees.
	res, err := Validate(activeCoupon(), 100000, time.Now())
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Discount != 20000 {
		t.Fatalf("discount = %d, want 20000", res.Discount)
	}
	if res.Message != "20% OFF APPLIED!" {
		t.Fatalf("message = %q", res.Message)
	}
	if res.Coupon.Code != "SAVE20" || res.Coupon.Type != models.CouponPercent {
		t.Fatalf("applied coupon wrong: %+v", res.Coupon)
	}
}

func TestValidateFlat(t *testing.T) {
	c := activeCoupon()
	c.Type = models.CouponFlat
	c.Value = 20000 // ₹200

	res, err := Validate(c, 100000, time.Now())
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if res.Discount != 20000 {
		t.Fatalf("discount = %d, want 20000", res.Discount)
	}
	if res.Message != "₹200 OFF APPLIED!" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestValidateFailures(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		coupon *models.Coupon
		want   error
	}{
		{name: "missing record", coupon: nil, want: ErrInvalidCode},
		{
			name: "inactive",
			coupon: func() *models.Coupon {
				c := activeCoupon()
				c.IsActive = false
				return c
			}(),
			want: ErrInactiveCode,
		},
		{
			name: "expired",
			coupon: func() *models.Coupon {
				c := activeCoupon()
				c.ExpiresAt = &past
				return c
			}(),
			want: ErrExpiredCode,
		},
		{
			name: "usage cap hit",
			coupon: func() *models.Coupon {
				c := activeCoupon()
				c.MaxUses = 5
				c.UsesCount = 5
				return c
			}(),
			want: ErrLimitReached,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Validate(tc.coupon, 100000, now)
			if res != nil {
				t.Fatalf("expected failure, got result %+v", res)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !IsValidationError(err) {
				t.Fatalf("err %v not classified as validation error", err)
			}
		})
	}
}

func TestValidateMinOrder(t *testing.T) {
	c := activeCoupon()
	c.MinOrder = 50000 // ₹500 floor

	// Subtotal ₹400 in paise does not reach the floor.
	_, err := Validate(c, 40000, time.Now())
	var minErr *MinOrderError
	if !errors.As(err, &minErr) {
		t.Fatalf("err = %v, want MinOrderError", err)
	}
	if minErr.Error() != "MIN. ORDER ₹500 REQUIRED" {
		t.Fatalf("message = %q", minErr.Error())
	}
	if !IsValidationError(err) {
		t.Fatal("MinOrderError not classified as validation error")
	}

	// At the floor the coupon applies.
	if _, err := Validate(c, 50000, time.Now()); err != nil {
		t.Fatalf("Validate at floor: %v", err)
	}
}

func TestValidateNotExpiredYet(t *testing.T) {
	c := activeCoupon()
	future := time.Now().Add(time.Hour)
	c.ExpiresAt = &future
	if _, err := Validate(c, 100000, time.Now()); err != nil {
		t.Fatalf("Validate before expiry: %v", err)
	}
}

func TestDiscountCappedAtSubtotal(t *testing.T) {
	flat := &models.Coupon{Type: models.CouponFlat, Value: 500000, IsActive: true}
	if got := Discount(flat, 40000); got != 40000 {
		t.Fatalf("flat discount = %d, want capped 40000", got)
	}

	full := &models.Coupon{Type: models.CouponPercent, Value: 100, IsActive: true}
	if got := Discount(full, 40000); got != 40000 {
		t.Fatalf("100%% discount = %d, want 40000", got)
	}

	if got := Discount(full, 0); got != 0 {
		t.Fatalf("discount on empty cart = %d, want 0", got)
	}
}

func TestDiscountRounding(t *testing.T) {
	c := &models.Coupon{Type: models.CouponPercent, Value: 50, IsActive: true}
	// 50% of 101 paise rounds to 51, not truncates to 50.
	if got := Discount(c, 101); got != 51 {
		t.Fatalf("discount = %d, want 51", got)
	}
}
