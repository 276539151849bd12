package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"webshop/internal/models"
	"webshop/internal/services"
)

func TestFavoriteToggle(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	db := newFakeDB()
	svc := services.NewFavoriteService(db, db, discardLog())
	p1 := db.addProduct("keyboard", 100, 10)

	t.Run("UnknownProduct", func(t *testing.T) {
		result := svc.Toggle(ctx, userID, primitive.NewObjectID())
		assert.Equal(t, services.StatusNotFound, result.Status)
	})

	t.Run("TogglePair", func(t *testing.T) {
		result := svc.Toggle(ctx, userID, p1)
		require.True(t, result.OK())
		assert.Equal(t, true, result.Data.(map[string]any)["isFavorite"])
		require.Len(t, db.favorites, 1)

		result = svc.Toggle(ctx, userID, p1)
		require.True(t, result.OK())
		assert.Equal(t, false, result.Data.(map[string]any)["isFavorite"])
		assert.Empty(t, db.favorites)
	})
}

func TestFavoriteListAndCheck(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	db := newFakeDB()
	svc := services.NewFavoriteService(db, db, discardLog())
	p1 := db.addProduct("keyboard", 100, 10)
	p2 := db.addProduct("mouse", 50, 10)

	svc.Toggle(ctx, userID, p1)
	svc.Toggle(ctx, userID, p2)

	result := svc.ListByUser(ctx, userID)
	require.True(t, result.OK())
	products := result.Data.([]*models.Product)
	assert.Len(t, products, 2)

	check := svc.IsFavorite(ctx, userID, p1)
	require.True(t, check.OK())
	assert.Equal(t, true, check.Data.(map[string]any)["isFavorite"])

	check = svc.IsFavorite(ctx, primitive.NewObjectID(), p1)
	require.True(t, check.OK())
	assert.Equal(t, false, check.Data.(map[string]any)["isFavorite"])
}
