package models

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

// ShippingSettings is the single global shipping configuration row.
// All charges and thresholds are paise.
type ShippingSettings struct {
	ID                    int    `json:"id" bson:"_id"`
	StandardCharge        int64  `json:"standardCharge" bson:"standardCharge"`
	FreeShippingEnabled   bool   `json:"freeShippingEnabled" bson:"freeShippingEnabled"`
	FreeShippingThreshold int64  `json:"freeShippingThreshold" bson:"freeShippingThreshold"`
	ExpressEnabled        bool   `json:"expressEnabled" bson:"expressEnabled"`
	ExpressCharge         int64  `json:"expressCharge" bson:"expressCharge"`
	ShippingInfoText      string `json:"shippingInfoText,omitempty" bson:"shippingInfoText,omitempty"`
}

// DefaultShippingSettings mirrors the seed row used before an admin saves one.
func DefaultShippingSettings() ShippingSettings {
	return ShippingSettings{
		ID:             1,
		StandardCharge: 9900,
		ExpressEnabled: true,
		ExpressCharge:  19900,
	}
}
