package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"webshop/internal/models"
)

type FavoriteStore interface {
	GetFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*models.Favorite, error)
	InsertFavorite(ctx context.Context, userID, productID primitive.ObjectID) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id primitive.ObjectID) error
	FavoritesByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Favorite, error)
}

type FavoriteService struct {
	store    FavoriteStore
	products ProductGetter
	errorLog *log.Logger
}

func NewFavoriteService(store FavoriteStore, products ProductGetter, errorLog *log.Logger) *FavoriteService {
	return &FavoriteService{store: store, products: products, errorLog: errorLog}
}

// Toggle flips the (user, product) favorite: removes it when present,
// creates it otherwise. The payload tells the caller which happened.
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID primitive.ObjectID) Result {
	existing, err := s.store.GetFavorite(ctx, userID, productID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return s.internal("look up favorite", err)
	}

	if existing != nil {
		if err := s.store.DeleteFavorite(ctx, existing.ID); err != nil {
			return s.internal("delete favorite", err)
		}
		return ok("removed from favorites", map[string]any{"isFavorite": false})
	}

	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fail(StatusNotFound, "product does not exist")
		}
		return s.internal("look up product", err)
	}

	fav, err := s.store.InsertFavorite(ctx, userID, productID)
	if err != nil {
		return s.internal("insert favorite", err)
	}
	return ok("added to favorites", map[string]any{"isFavorite": true, "favoriteId": fav.ID})
}

// ListByUser returns the favorited products themselves; favorites whose
// product has been deleted are skipped.
func (s *FavoriteService) ListByUser(ctx context.Context, userID primitive.ObjectID) Result {
	favorites, err := s.store.FavoritesByUser(ctx, userID)
	if err != nil {
		return s.internal("list favorites", err)
	}

	ids := make([]primitive.ObjectID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProductID)
	}
	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return s.internal("populate favorites", err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := []*models.Product{}
	for _, f := range favorites {
		if p := byID[f.ProductID]; p != nil {
			out = append(out, p)
		}
	}
	return ok("favorites fetched", out)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, productID primitive.ObjectID) Result {
	_, err := s.store.GetFavorite(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ok("favorite checked", map[string]any{"isFavorite": false})
		}
		return s.internal("look up favorite", err)
	}
	return ok("favorite checked", map[string]any{"isFavorite": true})
}

func (s *FavoriteService) internal(op string, err error) Result {
	s.errorLog.Printf("favorite service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
