package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"webshop/internal/models"
)

type UserStore interface {
	InsertUser(ctx context.Context, name, email, password, role string) (*models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, email, newPassword string) (bool, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type UserService struct {
	store    UserStore
	errorLog *log.Logger
}

func NewUserService(store UserStore, errorLog *log.Logger) *UserService {
	return &UserService{store: store, errorLog: errorLog}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) Result {
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return fail(StatusInvalidInput, "name, email and password are required")
	}

	user, err := s.store.InsertUser(ctx, name, email, password, "customer")
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return fail(StatusInvalidInput, "email is already registered")
		}
		return s.internal("insert user", err)
	}
	return ok("account created", user)
}

// Authenticate verifies credentials and returns the user. Token issuance
// belongs to the request layer; the services never see signing secrets.
func (s *UserService) Authenticate(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.store.AuthenticateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return fail(StatusUnauthenticated, "email or password is incorrect")
		}
		return s.internal("authenticate user", err)
	}
	return ok("authenticated", user)
}

func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) Result {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || newPassword == "" {
		return fail(StatusInvalidInput, "email and new password are required")
	}

	matched, err := s.store.UpdateUserPassword(ctx, email, newPassword)
	if err != nil {
		return s.internal("update password", err)
	}
	if !matched {
		return fail(StatusNotFound, "no account with that email")
	}
	return ok("password updated", nil)
}

func (s *UserService) List(ctx context.Context) Result {
	users, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return s.internal("list users", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return ok("users fetched", users)
}

func (s *UserService) internal(op string, err error) Result {
	s.errorLog.Printf("user service: %s: %v", op, err)
	return fail(StatusInternal, "something went wrong, please try again")
}
