package services

import (
	"context"
	"errors"
	"log"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webshop/internal/models"
)

const similarProductsLimit = 8

type ProductStore interface {
	InsertProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, upd models.ProductUpdate) (bool, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListProducts(ctx context.Context, q models.ProductQuery) ([]*models.Product, int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	PriceBounds(ctx context.Context) (float64, float64, error)
	IncrementViewCount(ctx context.Context, id primitive.ObjectID) (bool, error)
	SimilarProducts(ctx context.Context, category string, exclude primitive.ObjectID, limit int64) ([]*models.Product, error)
}

// Ranker orders a candidate set against a free-text query. It is a pure
// collaborator: it neither reads nor writes the catalog.
type Ranker interface {
	Rank(query string, candidates []*models.Product) []*models.Product
}

// StatsSource supplies the non-catalog figures on a product page.
type StatsSource interface {
	PurchaseStatsByProduct(ctx context.Context, productID primitive.ObjectID) (models.PurchaseStats, error)
	CountComments(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

type ProductListOptions struct {
	Category  string
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	SortBy    string
	SortOrder string
	Page      int64
	Limit     int64
}

type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ProductPage struct {
	Products   []*models.Product `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

type ProductFilters struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"`
}

type ProductStats struct {
	BuyersCount   int   `json:"buyersCount"`
	TotalQuantity int   `json:"totalQuantity"`
	ViewCount     int64 `json:"viewCount"`
	CommentCount  int64 `json:"commentCount"`
}

type ProductService struct {
	store    ProductStore
	stats    StatsSource
	ranker   Ranker
	errorLog *log.Logger
}

func NewProductService(store ProductStore, stats StatsSource, ranker Ranker, errorLog *log.Logger) *ProductService {
	return &ProductService{store: store, stats: stats, ranker: ranker, errorLog: errorLog}
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) Result {
	if p.Name == "" {
		return fail(StatusInvalidInput, "product name is required")
	}
	if p.Price < 0 {
		return fail(StatusInvalidInput, "product price cannot be negative")
	}
	if p.Stock < 0 {
		return fail(StatusInvalidInput, "product stock cannot be negative")
	}

	if err := s.store.InsertProduct(ctx, p); err != nil {
		return s.internal("insert product", err)
	}
	return ok("product created", p)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) Result {
	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "product not found")
		}
		return s.internal("get product", err)
	}
	return ok("product fetched", p)
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, upd models.ProductUpdate) Result {
	if upd.Price != nil && *upd.Price < 0 {
		return fail(StatusInvalidInput, "product price cannot be negative")
	}

	matched, err := s.store.UpdateProduct(ctx, id, upd)
	if err != nil {
		return s.internal("update product", err)
	}
	if !matched {
		return fail(StatusNotFound, "product not found")
	}

	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return s.internal("get product", err)
	}
	return ok("product updated", p)
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) Result {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return s.internal("delete product", err)
	}
	if !deleted {
		return fail(StatusNotFound, "product not found")
	}
	return ok("product deleted", nil)
}

// List pages the catalog. With a search term the filtered candidates are
// handed to the ranking collaborator and paged in ranked order; without
// one the store sorts and pages.
func (s *ProductService) List(ctx context.Context, opts ProductListOptions) Result {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	q := models.ProductQuery{
		Category:  opts.Category,
		Brand:     opts.Brand,
		MinPrice:  opts.MinPrice,
		MaxPrice:  opts.MaxPrice,
		SortBy:    sortField(opts.SortBy),
		SortOrder: opts.SortOrder,
		Page:      opts.Page,
		Limit:     opts.Limit,
	}

	if opts.Search != "" {
		// Rank the whole filtered candidate set, then page in memory.
		q.Page, q.Limit = 0, 0
		candidates, _, err := s.store.ListProducts(ctx, q)
		if err != nil {
			return s.internal("list products", err)
		}
		ranked := s.ranker.Rank(opts.Search, candidates)
		total := int64(len(ranked))

		start := (opts.Page - 1) * opts.Limit
		if start > total {
			start = total
		}
		end := start + opts.Limit
		if end > total {
			end = total
		}
		return ok("products fetched", ProductPage{
			Products:   ranked[start:end],
			Pagination: paginate(opts.Page, opts.Limit, total),
		})
	}

	products, total, err := s.store.ListProducts(ctx, q)
	if err != nil {
		return s.internal("list products", err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return ok("products fetched", ProductPage{
		Products:   products,
		Pagination: paginate(opts.Page, opts.Limit, total),
	})
}

func (s *ProductService) Filters(ctx context.Context) Result {
	categories, err := s.store.DistinctCategories(ctx)
	if err != nil {
		return s.internal("list categories", err)
	}
	brands, err := s.store.DistinctBrands(ctx)
	if err != nil {
		return s.internal("list brands", err)
	}
	minPrice, maxPrice, err := s.store.PriceBounds(ctx)
	if err != nil {
		return s.internal("price bounds", err)
	}
	return ok("filters fetched", ProductFilters{
		Categories: categories,
		Brands:     brands,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	})
}

func (s *ProductService) IncrementView(ctx context.Context, id primitive.ObjectID) Result {
	matched, err := s.store.IncrementViewCount(ctx, id)
	if err != nil {
		return s.internal("increment view count", err)
	}
	if !matched {
		return fail(StatusNotFound, "product not found")
	}
	return ok("view counted", nil)
}

func (s *ProductService) Stats(ctx context.Context, id primitive.ObjectID) Result {
	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "product not found")
		}
		return s.internal("get product", err)
	}

	purchases, err := s.stats.PurchaseStatsByProduct(ctx, id)
	if err != nil {
		return s.internal("aggregate purchase stats", err)
	}
	comments, err := s.stats.CountComments(ctx, id)
	if err != nil {
		return s.internal("count comments", err)
	}

	return ok("product stats fetched", ProductStats{
		BuyersCount:   purchases.BuyersCount,
		TotalQuantity: purchases.TotalQuantity,
		ViewCount:     p.ViewCount,
		CommentCount:  comments,
	})
}

func (s *ProductService) Similar(ctx context.Context, id primitive.ObjectID) Result {
	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "product not found")
		}
		return s.internal("get product", err)
	}

	similar, err := s.store.SimilarProducts(ctx, p.Category, p.ID, similarProductsLimit)
	if err != nil {
		return s.internal("list similar products", err)
	}
	if similar == nil {
		similar = []*models.Product{}
	}
	return ok("similar products fetched", similar)
}

func sortField(s string) string {
	switch s {
	case "price", "name", "view_count", "created_at":
		return s
	case "viewCount":
		return "view_count"
	case "createdAt", "":
		return "created_at"
	default:
		return "created_at"
	}
}

func paginate(page, limit, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
	}
}

func (s *ProductService) internal(op string, err error) Result {
	s.errorLog.Printf("product service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
