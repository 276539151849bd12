package services

import (
	"context"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"webshop/internal/models"
)

type CommentStore interface {
	InsertComment(ctx context.Context, c *models.Comment) error
	CommentsByProduct(ctx context.Context, productID primitive.ObjectID) ([]*models.Comment, error)
	CountComments(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

type UserGetter interface {
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
}

// CommentView is a comment with the author's public fields joined in.
type CommentView struct {
	*models.Comment
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type CommentService struct {
	store    CommentStore
	users    UserGetter
	errorLog *log.Logger
}

func NewCommentService(store CommentStore, users UserGetter, errorLog *log.Logger) *CommentService {
	return &CommentService{store: store, users: users, errorLog: errorLog}
}

func (s *CommentService) Create(ctx context.Context, userID, productID primitive.ObjectID, content string, rating int) Result {
	if strings.TrimSpace(content) == "" {
		return fail(StatusInvalidInput, "comment content is required")
	}
	if rating < 1 || rating > 5 {
		return fail(StatusInvalidInput, "rating must be between 1 and 5")
	}

	c := &models.Comment{
		UserID:    userID,
		ProductID: productID,
		Content:   content,
		Rating:    rating,
	}
	if err := s.store.InsertComment(ctx, c); err != nil {
		return s.internal("insert comment", err)
	}
	return ok("comment added", c)
}

// ListByProduct returns a product's comments newest first, with author
// names joined in.
func (s *CommentService) ListByProduct(ctx context.Context, productID primitive.ObjectID) Result {
	comments, err := s.store.CommentsByProduct(ctx, productID)
	if err != nil {
		return s.internal("list comments", err)
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return s.internal("populate comments", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := []CommentView{}
	for _, c := range comments {
		view := CommentView{Comment: c}
		if u := byID[c.UserID]; u != nil {
			view.UserName = u.Name
			view.UserEmail = u.Email
		}
		views = append(views, view)
	}
	return ok("comments fetched", views)
}

func (s *CommentService) internal(op string, err error) Result {
	s.errorLog.Printf("comment service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
