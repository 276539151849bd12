package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertOrder(ctx context.Context, o *Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.CreatedAt = time.Now()
	_, err := m.Orders.InsertOne(ctx, o)
	return err
}

func (m *MongoDB) OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.Orders.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []*Order
	err = cur.All(ctx, &orders)
	return orders, err
}

// DecrementStock takes qty units of stock if and only if enough remain.
// The stock check and the decrement are one atomic update, so concurrent
// checkouts cannot oversell.
func (m *MongoDB) DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int) (bool, error) {
	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"stock": -qty}}
	res, err := m.Products.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (m *MongoDB) IncrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error {
	_, err := m.Products.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$inc": bson.M{"stock": qty}})
	return err
}

// PurchaseStatsByProduct reports how many distinct users bought a product
// and the total quantity sold across all orders.
func (m *MongoDB) PurchaseStatsByProduct(ctx context.Context, productID primitive.ObjectID) (PurchaseStats, error) {
	pipeline := []bson.M{
		{"$unwind": "$items"},
		{"$match": bson.M{"items.product_id": productID}},
		{"$group": bson.M{
			"_id":            nil,
			"buyers":         bson.M{"$addToSet": "$user_id"},
			"total_quantity": bson.M{"$sum": "$items.quantity"},
		}},
	}
	cur, err := m.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return PurchaseStats{}, err
	}
	defer cur.Close(ctx)

	var results []struct {
		Buyers        []primitive.ObjectID `bson:"buyers"`
		TotalQuantity int                  `bson:"total_quantity"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return PurchaseStats{}, err
	}
	if len(results) == 0 {
		return PurchaseStats{}, nil
	}
	return PurchaseStats{
		BuyersCount:   len(results[0].Buyers),
		TotalQuantity: results[0].TotalQuantity,
	}, nil
}
