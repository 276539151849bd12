package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cart mutations are single atomic document updates ($inc, $push, $pull,
// positional $set) rather than read-modify-write saves, so two concurrent
// additions of the same product can never lose an increment.

func (m *MongoDB) GetCartByUserID(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	var c Cart
	err := m.Carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *MongoDB) CreateCart(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	now := time.Now()
	c := Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := m.Carts.InsertOne(ctx, c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IncItemQuantity atomically adds delta to the line holding productID.
// Reports false when the user has no such line (or no cart at all).
func (m *MongoDB) IncItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, delta int) (bool, error) {
	filter := bson.M{"user_id": userID, "items.product_id": productID}
	update := bson.M{
		"$inc": bson.M{"items.$.quantity": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := m.Carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// PushItem appends a new line unless the cart already holds one for the
// product, creating the cart document on first use. Reports whether a
// line was appended; a false report means a line for the product showed
// up since the caller last looked, so the increment path applies.
func (m *MongoDB) PushItem(ctx context.Context, userID primitive.ObjectID, item CartItem) (bool, error) {
	now := time.Now()
	filter := bson.M{"user_id": userID, "items.product_id": bson.M{"$ne": item.ProductID}}
	update := bson.M{
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	res, err := m.Carts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// When the cart exists and holds the product, the filter misses
		// and the upsert collides with the unique user_id index.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

func (m *MongoDB) SetItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error) {
	filter := bson.M{"user_id": userID, "items._id": itemID}
	update := bson.M{
		"$set": bson.M{"items.$.quantity": quantity, "updated_at": time.Now()},
	}
	res, err := m.Carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoDB) SetItemSelected(ctx context.Context, userID, itemID primitive.ObjectID, selected bool) (bool, error) {
	filter := bson.M{"user_id": userID, "items._id": itemID}
	update := bson.M{
		"$set": bson.M{"items.$.selected": selected, "updated_at": time.Now()},
	}
	res, err := m.Carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// PullItem removes the line with itemID; reports whether a line was removed.
func (m *MongoDB) PullItem(ctx context.Context, userID, itemID primitive.ObjectID) (bool, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"_id": itemID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := m.Carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ClearItems empties the item list but keeps the cart document, creating
// an empty cart if the user had none.
func (m *MongoDB) ClearItems(ctx context.Context, userID primitive.ObjectID) error {
	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set":         bson.M{"items": []CartItem{}, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := m.Carts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// SetSelection flips the selected flag on every line whose id is in ids;
// ids with no matching line are ignored.
func (m *MongoDB) SetSelection(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID, selected bool) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{"items.$[it].selected": selected, "updated_at": time.Now()},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"it._id": bson.M{"$in": ids}}},
	})
	_, err := m.Carts.UpdateOne(ctx, filter, update, opts)
	return err
}
