package services_test

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webshop/internal/models"
)

// fakeDB is an in-memory stand-in for the Mongo-backed store. Its methods
// mirror the documented semantics of the real ones: conditional matches,
// upserts, and check-and-decrement stock.
type fakeDB struct {
	carts        map[primitive.ObjectID]*models.Cart
	products     map[primitive.ObjectID]*models.Product
	productOrder []primitive.ObjectID
	orders       []*models.Order
	favorites    []*models.Favorite
	comments     []*models.Comment
	users        map[primitive.ObjectID]*models.User

	insertOrderErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		carts:    make(map[primitive.ObjectID]*models.Cart),
		products: make(map[primitive.ObjectID]*models.Product),
		users:    make(map[primitive.ObjectID]*models.User),
	}
}

func (f *fakeDB) addProduct(name string, price float64, stock int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock, Category: "misc"}
	f.productOrder = append(f.productOrder, id)
	return id
}

// --- CartStore ---

func (f *fakeDB) GetCartByUserID(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, okC := f.carts[userID]
	if !okC {
		return nil, mongo.ErrNoDocuments
	}
	return cart, nil
}

func (f *fakeDB) CreateCart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart := &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items:  []models.CartItem{},
	}
	f.carts[userID] = cart
	return cart, nil
}

func (f *fakeDB) IncItemQuantity(_ context.Context, userID, productID primitive.ObjectID, delta int) (bool, error) {
	cart, okC := f.carts[userID]
	if !okC {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += delta
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) PushItem(_ context.Context, userID primitive.ObjectID, item models.CartItem) (bool, error) {
	cart, okC := f.carts[userID]
	if !okC {
		cart = &models.Cart{ID: primitive.NewObjectID(), UserID: userID}
		f.carts[userID] = cart
	}
	for _, it := range cart.Items {
		if it.ProductID == item.ProductID {
			return false, nil
		}
	}
	cart.Items = append(cart.Items, item)
	return true, nil
}

func (f *fakeDB) SetItemQuantity(_ context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error) {
	cart, okC := f.carts[userID]
	if !okC {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) SetItemSelected(_ context.Context, userID, itemID primitive.ObjectID, selected bool) (bool, error) {
	cart, okC := f.carts[userID]
	if !okC {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Selected = selected
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) PullItem(_ context.Context, userID, itemID primitive.ObjectID) (bool, error) {
	cart, okC := f.carts[userID]
	if !okC {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) ClearItems(_ context.Context, userID primitive.ObjectID) error {
	cart, okC := f.carts[userID]
	if !okC {
		cart = &models.Cart{ID: primitive.NewObjectID(), UserID: userID}
		f.carts[userID] = cart
	}
	cart.Items = []models.CartItem{}
	return nil
}

func (f *fakeDB) SetSelection(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID, selected bool) error {
	cart, okC := f.carts[userID]
	if !okC {
		return nil
	}
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for i := range cart.Items {
		if wanted[cart.Items[i].ID] {
			cart.Items[i].Selected = selected
		}
	}
	return nil
}

// --- ProductGetter / StockStore ---

func (f *fakeDB) GetProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, okP := f.products[id]
	if !okP {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (f *fakeDB) GetProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	var out []*models.Product
	for _, id := range ids {
		if p, okP := f.products[id]; okP {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDB) orderedProducts() []*models.Product {
	out := make([]*models.Product, 0, len(f.productOrder))
	for _, id := range f.productOrder {
		if p, okP := f.products[id]; okP {
			out = append(out, p)
		}
	}
	return out
}

// --- ProductStore ---

func (f *fakeDB) InsertProduct(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.products[p.ID] = p
	f.productOrder = append(f.productOrder, p.ID)
	return nil
}

func (f *fakeDB) UpdateProduct(_ context.Context, id primitive.ObjectID, upd models.ProductUpdate) (bool, error) {
	p, okP := f.products[id]
	if !okP {
		return false, nil
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Brand != nil {
		p.Brand = *upd.Brand
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeDB) DeleteProduct(_ context.Context, id primitive.ObjectID) (bool, error) {
	if _, okP := f.products[id]; !okP {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

func (f *fakeDB) ListProducts(_ context.Context, q models.ProductQuery) ([]*models.Product, int64, error) {
	var filtered []*models.Product
	for _, p := range f.orderedProducts() {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Brand != "" && p.Brand != q.Brand {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	total := int64(len(filtered))
	if q.Limit > 0 {
		start := (q.Page - 1) * q.Limit
		if start > total {
			start = total
		}
		end := start + q.Limit
		if end > total {
			end = total
		}
		filtered = filtered[start:end]
	}
	return filtered, total, nil
}

func (f *fakeDB) DistinctCategories(_ context.Context) ([]string, error) {
	return f.distinct(func(p *models.Product) string { return p.Category }), nil
}

func (f *fakeDB) DistinctBrands(_ context.Context) ([]string, error) {
	return f.distinct(func(p *models.Product) string { return p.Brand }), nil
}

func (f *fakeDB) distinct(field func(*models.Product) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range f.orderedProducts() {
		v := field(p)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeDB) PriceBounds(_ context.Context) (float64, float64, error) {
	products := f.orderedProducts()
	if len(products) == 0 {
		return 0, 0, nil
	}
	minP, maxP := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		if p.Price < minP {
			minP = p.Price
		}
		if p.Price > maxP {
			maxP = p.Price
		}
	}
	return minP, maxP, nil
}

func (f *fakeDB) IncrementViewCount(_ context.Context, id primitive.ObjectID) (bool, error) {
	p, okP := f.products[id]
	if !okP {
		return false, nil
	}
	p.ViewCount++
	return true, nil
}

func (f *fakeDB) SimilarProducts(_ context.Context, category string, exclude primitive.ObjectID, limit int64) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.orderedProducts() {
		if p.Category == category && p.ID != exclude && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDB) DecrementStock(_ context.Context, productID primitive.ObjectID, qty int) (bool, error) {
	p, okP := f.products[productID]
	if !okP || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (f *fakeDB) IncrementStock(_ context.Context, productID primitive.ObjectID, qty int) error {
	if p, okP := f.products[productID]; okP {
		p.Stock += qty
	}
	return nil
}

// --- OrderStore ---

func (f *fakeDB) InsertOrder(_ context.Context, o *models.Order) error {
	if f.insertOrderErr != nil {
		return f.insertOrderErr
	}
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeDB) OrdersByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeDB) PurchaseStatsByProduct(_ context.Context, productID primitive.ObjectID) (models.PurchaseStats, error) {
	buyers := make(map[primitive.ObjectID]bool)
	var total int
	for _, o := range f.orders {
		for _, item := range o.Items {
			if item.ProductID == productID {
				buyers[o.UserID] = true
				total += item.Quantity
			}
		}
	}
	return models.PurchaseStats{BuyersCount: len(buyers), TotalQuantity: total}, nil
}

// --- FavoriteStore ---

func (f *fakeDB) GetFavorite(_ context.Context, userID, productID primitive.ObjectID) (*models.Favorite, error) {
	for _, fav := range f.favorites {
		if fav.UserID == userID && fav.ProductID == productID {
			return fav, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeDB) InsertFavorite(_ context.Context, userID, productID primitive.ObjectID) (*models.Favorite, error) {
	fav := &models.Favorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	f.favorites = append(f.favorites, fav)
	return fav, nil
}

func (f *fakeDB) DeleteFavorite(_ context.Context, id primitive.ObjectID) error {
	for i, fav := range f.favorites {
		if fav.ID == id {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeDB) FavoritesByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Favorite, error) {
	var out []*models.Favorite
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

// --- CommentStore / UserGetter ---

func (f *fakeDB) InsertComment(_ context.Context, c *models.Comment) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeDB) CommentsByProduct(_ context.Context, productID primitive.ObjectID) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.ProductID == productID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDB) CountComments(_ context.Context, productID primitive.ObjectID) (int64, error) {
	var n int64
	for _, c := range f.comments {
		if c.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, okU := f.users[id]; okU {
			out = append(out, u)
		}
	}
	return out, nil
}

func discardLog() *log.Logger {
	return log.New(io.Discard, "", 0)
}
