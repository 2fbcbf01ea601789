package pricing

import (
	"testing"

	"voltwear/models"
)

func TestSubtotal(t *testing.T) {
	items := []models.CartLineItem{
		{CartItemID: "7-M", Price: 499900, Quantity: 3},
		{CartItemID: "9-L", Price: 129900, Quantity: 1},
	}
	if got := Subtotal(items); got != 1629600 {
		t.Fatalf("subtotal = %d, want 1629600", got)
	}
	if got := Subtotal(nil); got != 0 {
		t.Fatalf("empty subtotal = %d, want 0", got)
	}
}

func TestShippingCost(t *testing.T) {
	cfg := models.ShippingSettings{
		StandardCharge:        9900,
		ExpressEnabled:        true,
		ExpressCharge:         14900,
		FreeShippingEnabled:   false,
		FreeShippingThreshold: 0,
	}

	tests := []struct {
		name     string
		subtotal int64
		method   string
		mutate   func(*models.ShippingSettings)
		want     int64
	}{
		{name: "standard charge", subtotal: 50000, method: models.ShippingStandard, want: 9900},
		{name: "express charge", subtotal: 50000, method: models.ShippingExpress, want: 14900},
		{
			name: "express disabled falls back to standard", subtotal: 50000, method: models.ShippingExpress,
			mutate: func(c *models.ShippingSettings) { c.ExpressEnabled = false },
			want:   9900,
		},
		{
			name: "free shipping with zero threshold is always free", subtotal: 1, method: models.ShippingExpress,
			mutate: func(c *models.ShippingSettings) { c.FreeShippingEnabled = true },
			want:   0,
		},
		{
			name: "free shipping above threshold", subtotal: 200000, method: models.ShippingStandard,
			mutate: func(c *models.ShippingSettings) {
				c.FreeShippingEnabled = true
				c.FreeShippingThreshold = 100000
			},
			want: 0,
		},
		{
			name: "below threshold still pays", subtotal: 99999, method: models.ShippingStandard,
			mutate: func(c *models.ShippingSettings) {
				c.FreeShippingEnabled = true
				c.FreeShippingThreshold = 100000
			},
			want: 9900,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			if tc.mutate != nil {
				tc.mutate(&c)
			}
			if got := ShippingCost(tc.subtotal, tc.method, c); got != tc.want {
				t.Fatalf("shipping = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeNeverNegative(t *testing.T) {
	items := []models.CartLineItem{{Price: 100000, Quantity: 1}}
	cfg := models.ShippingSettings{StandardCharge: 9900}

	q := Compute(items, models.ShippingStandard, cfg, 500000)
	if q.Total != 0 {
		t.Fatalf("total = %d, want 0 when discount exceeds subtotal+shipping", q.Total)
	}
	if q.Subtotal != 100000 || q.ShippingCost != 9900 {
		t.Fatalf("breakdown wrong: %+v", q)
	}
}

func TestComputeIdempotent(t *testing.T) {
	items := []models.CartLineItem{{Price: 499900, Quantity: 3}}
	cfg := models.ShippingSettings{StandardCharge: 9900}

	first := Compute(items, models.ShippingStandard, cfg, 20000)
	second := Compute(items, models.ShippingStandard, cfg, 20000)
	if first != second {
		t.Fatalf("same inputs produced different quotes: %+v vs %+v", first, second)
	}
	if first.Total != 499900*3+9900-20000 {
		t.Fatalf("total = %d", first.Total)
	}
}

func TestParseMinorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "4999", want: 499900},
		{in: "4,999", want: 499900},
		{in: "₹1,49,970", want: 14997000},
		{in: "12.5", want: 1250},
		{in: "12.50", want: 1250},
		{in: "0", want: 0},
		{in: " 99 ", want: 9900},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseMinorUnits(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMinorUnits(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMinorUnits(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMinorUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatMajor(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 499900, want: "₹4,999"},
		{in: 1499700, want: "₹14,997"},
		{in: 14997000, want: "₹1,49,970"},
		{in: 100, want: "₹1"},
		{in: 0, want: "₹0"},
		{in: 100000000, want: "₹10,00,000"},
	}
	for _, tc := range tests {
		if got := FormatMajor(tc.in); got != tc.want {
			t.Fatalf("FormatMajor(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
