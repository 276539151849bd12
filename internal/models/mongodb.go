package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Users     *mongo.Collection
	Products  *mongo.Collection
	Carts     *mongo.Collection
	Orders    *mongo.Collection
	Favorites *mongo.Collection
	Comments  *mongo.Collection
}

func NewMongoDB(db *mongo.Database) *MongoDB {
	return &MongoDB{
		Users:     db.Collection("users"),
		Products:  db.Collection("products"),
		Carts:     db.Collection("carts"),
		Orders:    db.Collection("orders"),
		Favorites: db.Collection("favorites"),
		Comments:  db.Collection("comments"),
	}
}

// EnsureIndexes creates the uniqueness and lookup indexes the collections
// rely on: one cart per user, one favorite per (user, product), unique
// user emails, and the comment listing sort.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := m.Carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = m.Favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = m.Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = m.Orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "items.product_id", Value: 1}},
	})
	return err
}

func (m *MongoDB) InsertProduct(ctx context.Context, p *Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := m.Products.InsertOne(ctx, p)
	return err
}

func (m *MongoDB) GetProductByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := m.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MongoDB) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*Product
	cur, err := m.Products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &products)
	return products, err
}

func (m *MongoDB) UpdateProduct(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (bool, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Brand != nil {
		set["brand"] = *upd.Brand
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}

	res, err := m.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoDB) DeleteProduct(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.Products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoDB) ListProducts(ctx context.Context, q ProductQuery) ([]*Product, int64, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	total, err := m.Products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: order}})
	if q.Limit > 0 {
		opts.SetSkip((q.Page - 1) * q.Limit).SetLimit(q.Limit)
	}

	var products []*Product
	cur, err := m.Products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (m *MongoDB) DistinctCategories(ctx context.Context) ([]string, error) {
	return m.distinctStrings(ctx, "category")
}

func (m *MongoDB) DistinctBrands(ctx context.Context) ([]string, error) {
	return m.distinctStrings(ctx, "brand")
}

func (m *MongoDB) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := m.Products.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MongoDB) PriceBounds(ctx context.Context) (float64, float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id": nil,
			"min": bson.M{"$min": "$price"},
			"max": bson.M{"$max": "$price"},
		}},
	}
	cur, err := m.Products.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	var results []struct {
		Min float64 `bson:"min"`
		Max float64 `bson:"max"`
	}
	if err := cur.All(ctx, &results); err != nil || len(results) == 0 {
		return 0, 0, err
	}
	return results[0].Min, results[0].Max, nil
}

func (m *MongoDB) IncrementViewCount(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoDB) SimilarProducts(ctx context.Context, category string, exclude primitive.ObjectID, limit int64) ([]*Product, error) {
	filter := bson.M{"category": category, "_id": bson.M{"$ne": exclude}}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "view_count", Value: -1}})

	var products []*Product
	cur, err := m.Products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &products)
	return products, err
}
