package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"webshop/internal/models"
	"webshop/internal/search"
	"webshop/internal/services"
)

func newProductService(db *fakeDB) *services.ProductService {
	return services.NewProductService(db, db, search.NewRanker(), discardLog())
}

func TestProductCreate(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := newProductService(db)

	t.Run("RequiresName", func(t *testing.T) {
		result := svc.Create(ctx, &models.Product{Price: 10})
		assert.Equal(t, services.StatusInvalidInput, result.Status)
	})

	t.Run("RejectsNegativePrice", func(t *testing.T) {
		result := svc.Create(ctx, &models.Product{Name: "keyboard", Price: -1})
		assert.Equal(t, services.StatusInvalidInput, result.Status)
	})

	t.Run("Valid", func(t *testing.T) {
		result := svc.Create(ctx, &models.Product{Name: "keyboard", Price: 100, Stock: 3})
		require.True(t, result.OK(), result.Message)
		created := result.Data.(*models.Product)
		assert.False(t, created.ID.IsZero())
	})
}

func TestProductUpdate(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := newProductService(db)
	p1 := db.addProduct("keyboard", 100, 3)

	t.Run("PartialUpdate", func(t *testing.T) {
		price := 80.0
		result := svc.Update(ctx, p1, models.ProductUpdate{Price: &price})
		require.True(t, result.OK(), result.Message)
		updated := result.Data.(*models.Product)
		assert.Equal(t, 80.0, updated.Price)
		assert.Equal(t, "keyboard", updated.Name, "unset fields stay untouched")
	})

	t.Run("NotFound", func(t *testing.T) {
		result := svc.Update(ctx, primitive.NewObjectID(), models.ProductUpdate{})
		assert.Equal(t, services.StatusNotFound, result.Status)
	})
}

func TestProductList(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := newProductService(db)
	for i := 0; i < 25; i++ {
		db.addProduct("gadget", 10, 1)
	}

	page := func(t *testing.T, result services.Result) services.ProductPage {
		t.Helper()
		require.True(t, result.OK(), result.Message)
		return result.Data.(services.ProductPage)
	}

	t.Run("Paginates", func(t *testing.T) {
		got := page(t, svc.List(ctx, services.ProductListOptions{Page: 3, Limit: 10}))
		assert.Len(t, got.Products, 5)
		assert.Equal(t, int64(25), got.Pagination.Total)
		assert.Equal(t, int64(3), got.Pagination.TotalPages)
	})

	t.Run("DefaultsPageAndLimit", func(t *testing.T) {
		got := page(t, svc.List(ctx, services.ProductListOptions{}))
		assert.Len(t, got.Products, 10)
		assert.Equal(t, int64(1), got.Pagination.Page)
	})

	t.Run("SearchRanksAndPaginates", func(t *testing.T) {
		db := newFakeDB()
		svc := newProductService(db)
		db.addProduct("office chair", 200, 1)
		db.addProduct("keyboard", 100, 1)
		db.addProduct("keyboard wrist rest", 20, 1)

		got := page(t, svc.List(ctx, services.ProductListOptions{Search: "keyboard"}))
		require.Len(t, got.Products, 2)
		assert.Equal(t, "keyboard", got.Products[0].Name)
		assert.Equal(t, int64(2), got.Pagination.Total)
	})
}

func TestProductFilters(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := newProductService(db)

	cat, brand := "keyboards", "Clacky"
	svc.Create(ctx, &models.Product{Name: "a", Price: 10, Category: cat, Brand: brand})
	svc.Create(ctx, &models.Product{Name: "b", Price: 90, Category: cat, Brand: brand})

	result := svc.Filters(ctx)
	require.True(t, result.OK())
	filters := result.Data.(services.ProductFilters)
	assert.Equal(t, []string{"keyboards"}, filters.Categories)
	assert.Equal(t, []string{"Clacky"}, filters.Brands)
	assert.Equal(t, 10.0, filters.MinPrice)
	assert.Equal(t, 90.0, filters.MaxPrice)
}

func TestProductStats(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	products := newProductService(db)
	orders := newOrderService(db)
	comments := services.NewCommentService(db, db, discardLog())
	p1 := db.addProduct("keyboard", 100, 50)

	buyer := primitive.NewObjectID()
	orders.CreateOrder(ctx, buyer, []models.OrderItem{{ProductID: p1, Quantity: 3}})
	comments.Create(ctx, buyer, p1, "love it", 5)
	products.IncrementView(ctx, p1)
	products.IncrementView(ctx, p1)

	result := products.Stats(ctx, p1)
	require.True(t, result.OK())
	stats := result.Data.(services.ProductStats)
	assert.Equal(t, 1, stats.BuyersCount)
	assert.Equal(t, 3, stats.TotalQuantity)
	assert.Equal(t, int64(2), stats.ViewCount)
	assert.Equal(t, int64(1), stats.CommentCount)

	t.Run("NotFound", func(t *testing.T) {
		result := products.Stats(ctx, primitive.NewObjectID())
		assert.Equal(t, services.StatusNotFound, result.Status)
	})
}

func TestProductSimilar(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := newProductService(db)
	p1 := db.addProduct("keyboard", 100, 1)
	db.addProduct("mouse", 50, 1)
	db.addProduct("trackball", 70, 1)

	result := svc.Similar(ctx, p1)
	require.True(t, result.OK())
	similar := result.Data.([]*models.Product)
	require.Len(t, similar, 2, "same category, excluding the product itself")
	for _, p := range similar {
		assert.NotEqual(t, p1, p.ID)
	}
}
