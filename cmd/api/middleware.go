package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userContextKey = contextKey("user")

// authUser is the resolved caller identity the handlers trust.
type authUser struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  string
}

func (app *application) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s [%s]", r.RemoteAddr, r.Proto, r.Method,
			r.URL.RequestURI(), w.Header().Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves a bearer token into the request context. Requests
// without a token pass through anonymous; a token that is present but
// invalid is rejected here.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			app.clientError(w, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		claims, err := app.parseToken(token)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "token is expired or invalid")
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "token is expired or invalid")
			return
		}

		user := &authUser{ID: userID, Name: claims.Name, Email: claims.Email, Role: claims.Role}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.contextUser(r) == nil {
			app.clientError(w, http.StatusUnauthorized, "you must be logged in")
			return
		}
		next(w, r)
	}
}

func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return app.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if app.contextUser(r).Role != "admin" {
			app.clientError(w, http.StatusForbidden, "you do not have access to this feature")
			return
		}
		next(w, r)
	})
}

func (app *application) contextUser(r *http.Request) *authUser {
	user, _ := r.Context().Value(userContextKey).(*authUser)
	return user
}
