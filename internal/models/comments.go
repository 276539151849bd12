package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertComment(ctx context.Context, c *Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = time.Now()
	_, err := m.Comments.InsertOne(ctx, c)
	return err
}

func (m *MongoDB) CommentsByProduct(ctx context.Context, productID primitive.ObjectID) ([]*Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.Comments.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []*Comment
	err = cur.All(ctx, &comments)
	return comments, err
}

func (m *MongoDB) CountComments(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	return m.Comments.CountDocuments(ctx, bson.M{"product_id": productID})
}
