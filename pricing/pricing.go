package pricing

import "voltwear/models"

// Quote is the price breakdown for a cart. All amounts are paise.
type Quote struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shippingCost"`
	Discount     int64 `json:"discount"`
	Total        int64 `json:"total"`
}

// Subtotal sums unit price times quantity over all line items.
func Subtotal(items []models.CartLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ShippingCost applies the free-shipping rule before the per-method charge.
// A zero threshold with free shipping enabled means every order ships free.
func ShippingCost(subtotal int64, method string, cfg models.ShippingSettings) int64 {
	if cfg.FreeShippingEnabled && (cfg.FreeShippingThreshold == 0 || subtotal >= cfg.FreeShippingThreshold) {
		return 0
	}
	if method == models.ShippingExpress && cfg.ExpressEnabled {
		return cfg.ExpressCharge
	}
	return cfg.StandardCharge
}

// Compute derives the full quote. The total never goes negative no matter
// how large the discount is.
func Compute(items []models.CartLineItem, method string, cfg models.ShippingSettings, discount int64) Quote {
	subtotal := Subtotal(items)
	shipping := ShippingCost(subtotal, method, cfg)

	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Discount:     discount,
		Total:        total,
	}
}
