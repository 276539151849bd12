package main

import (
	"net/http"

	"github.com/bmizerany/pat"
)

func (app *application) routes() http.Handler {
	mux := pat.New()

	mux.Post("/v1/api/register", http.HandlerFunc(app.register))
	mux.Post("/v1/api/login", http.HandlerFunc(app.login))
	mux.Post("/v1/api/forgot-password", http.HandlerFunc(app.forgotPassword))
	mux.Get("/v1/api/account", app.requireAuth(app.account))
	mux.Get("/v1/api/users", app.requireAdmin(app.listUsers))

	// Literal product routes must be registered before the :id routes.
	mux.Get("/v1/api/products/filters", http.HandlerFunc(app.productFilters))
	mux.Get("/v1/api/products", http.HandlerFunc(app.listProducts))
	mux.Post("/v1/api/products", app.requireAdmin(app.createProduct))
	mux.Get("/v1/api/products/:id/stats", http.HandlerFunc(app.productStats))
	mux.Get("/v1/api/products/:id/purchases", http.HandlerFunc(app.purchaseStats))
	mux.Get("/v1/api/products/:id/similar", http.HandlerFunc(app.similarProducts))
	mux.Get("/v1/api/products/:id/comments", http.HandlerFunc(app.listComments))
	mux.Post("/v1/api/products/:id/comments", app.requireAuth(app.createComment))
	mux.Post("/v1/api/products/:id/view", http.HandlerFunc(app.incrementProductView))
	mux.Get("/v1/api/products/:id", http.HandlerFunc(app.showProduct))
	mux.Put("/v1/api/products/:id", app.requireAdmin(app.updateProduct))
	mux.Del("/v1/api/products/:id", app.requireAdmin(app.deleteProduct))

	mux.Post("/v1/api/favorites/toggle", app.requireAuth(app.toggleFavorite))
	mux.Get("/v1/api/favorites/:productId", app.requireAuth(app.checkFavorite))
	mux.Get("/v1/api/favorites", app.requireAuth(app.listFavorites))

	mux.Get("/v1/api/cart", app.requireAuth(app.getCart))
	mux.Post("/v1/api/cart/items", app.requireAuth(app.addCartItem))
	mux.Put("/v1/api/cart/items/:itemId", app.requireAuth(app.updateCartItem))
	mux.Del("/v1/api/cart/items/:itemId", app.requireAuth(app.removeCartItem))
	mux.Del("/v1/api/cart", app.requireAuth(app.clearCart))
	mux.Post("/v1/api/cart/select", app.requireAuth(app.selectCartItems))
	mux.Get("/v1/api/cart/checkout", app.requireAuth(app.checkoutSelection))

	mux.Post("/v1/api/orders", app.requireAuth(app.createOrder))
	mux.Get("/v1/api/orders", app.requireAuth(app.listOrders))

	return app.logRequest(app.recoverPanic(app.requestID(app.authenticate(mux))))
}
