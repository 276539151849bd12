package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GetFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*Favorite, error) {
	var f Favorite
	err := m.Favorites.FindOne(ctx, bson.M{"user_id": userID, "product_id": productID}).Decode(&f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (m *MongoDB) InsertFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*Favorite, error) {
	f := Favorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	_, err := m.Favorites.InsertOne(ctx, f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (m *MongoDB) DeleteFavorite(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.Favorites.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *MongoDB) FavoritesByUser(ctx context.Context, userID primitive.ObjectID) ([]*Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.Favorites.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var favorites []*Favorite
	err = cur.All(ctx, &favorites)
	return favorites, err
}
