package main

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"webshop/internal/models"
)

// --- CART HANDLERS ---

func (app *application) getCart(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeResult(w, app.cart.Get(r.Context(), user.ID), http.StatusOK)
}

func (app *application) addCartItem(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	productID, err := parseObjectID(input.ProductID)
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	user := app.contextUser(r)
	app.writeResult(w, app.cart.AddItem(r.Context(), user.ID, productID, quantity), http.StatusOK)
}

func (app *application) updateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := readIDParam(r, "itemId")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "item is not in the cart")
		return
	}

	var input struct {
		Quantity *int  `json:"quantity"`
		Selected *bool `json:"selected"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := app.contextUser(r)
	result := app.cart.UpdateItem(r.Context(), user.ID, itemID, input.Quantity, input.Selected)
	app.writeResult(w, result, http.StatusOK)
}

func (app *application) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := readIDParam(r, "itemId")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "item is not in the cart")
		return
	}

	user := app.contextUser(r)
	app.writeResult(w, app.cart.RemoveItem(r.Context(), user.ID, itemID), http.StatusOK)
}

func (app *application) clearCart(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeResult(w, app.cart.Clear(r.Context(), user.ID), http.StatusOK)
}

func (app *application) selectCartItems(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ItemIDs  []string `json:"itemIds"`
		Selected bool     `json:"selected"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Unknown or malformed ids are ignored, matching the selection
	// semantics: only lines that actually match are touched.
	itemIDs := make([]primitive.ObjectID, 0, len(input.ItemIDs))
	for _, raw := range input.ItemIDs {
		if id, err := parseObjectID(raw); err == nil {
			itemIDs = append(itemIDs, id)
		}
	}

	user := app.contextUser(r)
	result := app.cart.SetSelection(r.Context(), user.ID, itemIDs, input.Selected)
	app.writeResult(w, result, http.StatusOK)
}

func (app *application) checkoutSelection(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeResult(w, app.cart.CheckoutSelection(r.Context(), user.ID), http.StatusOK)
}

// --- ORDER HANDLERS ---

func (app *application) createOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		productID, err := parseObjectID(it.ProductID)
		if err != nil {
			app.clientError(w, http.StatusBadRequest, "order items are malformed")
			return
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: it.Quantity})
	}

	user := app.contextUser(r)
	app.writeResult(w, app.orders.CreateOrder(r.Context(), user.ID, items), http.StatusCreated)
}

func (app *application) listOrders(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeResult(w, app.orders.ListByUser(r.Context(), user.ID), http.StatusOK)
}

func (app *application) purchaseStats(w http.ResponseWriter, r *http.Request) {
	productID, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.orders.PurchaseStats(r.Context(), productID), http.StatusOK)
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}
