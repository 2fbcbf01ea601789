package cart

import (
	"context"
	"time"

	"voltwear/db"
	"voltwear/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RemoteStore is the server-side copy of a signed-in user's cart, one row
// per (userId, cartItemId). Upserts are keyed on that composite so retries
// are idempotent.
type RemoteStore interface {
	Load(ctx context.Context, userID string) ([]models.CartLineItem, error)
	Upsert(ctx context.Context, userID string, item models.CartLineItem) error
	Delete(ctx context.Context, userID, cartItemID string) error
	Clear(ctx context.Context, userID string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore() *MongoStore {
	return &MongoStore{coll: db.CartCollection}
}

func (m *MongoStore) Load(ctx context.Context, userID string) ([]models.CartLineItem, error) {
	cursor, err := m.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.CartRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	items := make([]models.CartLineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.CartLineItem)
	}
	return items, nil
}

func (m *MongoStore) Upsert(ctx context.Context, userID string, item models.CartLineItem) error {
	filter := bson.M{"userId": userID, "cartItemId": item.CartItemID}
	update := bson.M{
		"$set": bson.M{
			"productId": item.ProductID,
			"name":      item.Name,
			"size":      item.Size,
			"quantity":  item.Quantity,
			"price":     item.Price,
			"image":     item.Image,
			"category":  item.Category,
			"updatedAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := m.coll.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoStore) Delete(ctx context.Context, userID, cartItemID string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"userId": userID, "cartItemId": cartItemID})
	return err
}

func (m *MongoStore) Clear(ctx context.Context, userID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
