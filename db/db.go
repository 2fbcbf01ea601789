package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductsCollection    *mongo.Collection
	CartCollection        *mongo.Collection
	CouponCollection      *mongo.Collection
	ShippingCollection    *mongo.Collection
	OrderCollection       *mongo.Collection
	OrderItemsCollection  *mongo.Collection
	AddressCollection     *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	store := Client.Database("storedb")
	UserCollection = store.Collection("users")
	ProductsCollection = store.Collection("products")
	CartCollection = store.Collection("cart_items")
	CouponCollection = store.Collection("coupons")
	ShippingCollection = store.Collection("shipping_settings")
	OrderCollection = store.Collection("orders")
	OrderItemsCollection = store.Collection("order_items")
	AddressCollection = store.Collection("user_addresses")
	IdempotencyCollection = store.Collection("idempotency")
}
