package models

import "time"

// Product is a catalog entry. Price is paise.
type Product struct {
	ProductID   string    `json:"id" bson:"productId"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Price       int64     `json:"price" bson:"price"`
	Sizes       []string  `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Featured    bool      `json:"featured,omitempty" bson:"featured,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
