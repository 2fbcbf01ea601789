package models

import "time"

// Address is a saved shipping address in a user's address book.
type Address struct {
	AddressID string    `json:"addressId" bson:"addressId"`
	UserID    string    `json:"-" bson:"userId"`
	Label     string    `json:"label,omitempty" bson:"label,omitempty"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Address   string    `json:"address" bson:"address"`
	City      string    `json:"city" bson:"city"`
	State     string    `json:"state" bson:"state"`
	Pincode   string    `json:"pincode" bson:"pincode"`
	Phone     string    `json:"phone" bson:"phone"`
	IsDefault bool      `json:"isDefault" bson:"isDefault"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
