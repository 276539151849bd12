package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("models: email already in use")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
)

func (m *MongoDB) InsertUser(ctx context.Context, name, email, password, role string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now(),
	}

	_, err = m.Users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func (m *MongoDB) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}

func (m *MongoDB) UpdateUserPassword(ctx context.Context, email, newPassword string) (bool, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return false, err
	}
	res, err := m.Users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"password_hash": string(hashed)}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoDB) GetAllUsers(ctx context.Context) ([]*User, error) {
	opts := options.Find().SetProjection(bson.M{"password_hash": 0})
	cur, err := m.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*User
	err = cur.All(ctx, &users)
	return users, err
}

func (m *MongoDB) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"password_hash": 0})
	cur, err := m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*User
	err = cur.All(ctx, &users)
	return users, err
}
