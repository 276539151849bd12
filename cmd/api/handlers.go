package main

import (
	"net/http"
	"strconv"

	"webshop/internal/models"
	"webshop/internal/services"
)

// --- AUTH & ACCOUNT HANDLERS ---

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := app.users.Register(r.Context(), input.Name, input.Email, input.Password)
	app.writeResult(w, result, http.StatusCreated)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := app.users.Authenticate(r.Context(), input.Email, input.Password)
	if !result.OK() {
		app.writeResult(w, result, http.StatusOK)
		return
	}

	user := result.Data.(*models.User)
	token, err := app.createToken(user)
	if err != nil {
		app.serverError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: result.Message,
		Data:    map[string]any{"accessToken": token, "user": user},
	})
}

func (app *application) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := app.users.ResetPassword(r.Context(), input.Email, input.NewPassword)
	app.writeResult(w, result, http.StatusOK)
}

func (app *application) account(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "account fetched",
		Data: map[string]any{
			"_id":   user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (app *application) listUsers(w http.ResponseWriter, r *http.Request) {
	app.writeResult(w, app.users.List(r.Context()), http.StatusOK)
}

// --- PRODUCT HANDLERS ---

func (app *application) createProduct(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
		Category    string  `json:"category"`
		Brand       string  `json:"brand"`
		Stock       int     `json:"stock"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		Category:    input.Category,
		Brand:       input.Brand,
		Stock:       input.Stock,
	}
	app.writeResult(w, app.products.Create(r.Context(), product), http.StatusCreated)
}

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := services.ProductListOptions{
		Category:  q.Get("category"),
		Brand:     q.Get("brand"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		opts.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		opts.MaxPrice = &v
	}
	if v, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil {
		opts.Page = v
	}
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil {
		opts.Limit = v
	}

	app.writeResult(w, app.products.List(r.Context(), opts), http.StatusOK)
}

func (app *application) showProduct(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.products.Get(r.Context(), id), http.StatusOK)
}

func (app *application) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		Image       *string  `json:"image"`
		Category    *string  `json:"category"`
		Brand       *string  `json:"brand"`
		Stock       *int     `json:"stock"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := models.ProductUpdate{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		Category:    input.Category,
		Brand:       input.Brand,
		Stock:       input.Stock,
	}
	app.writeResult(w, app.products.Update(r.Context(), id, upd), http.StatusOK)
}

func (app *application) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.products.Delete(r.Context(), id), http.StatusOK)
}

func (app *application) productFilters(w http.ResponseWriter, r *http.Request) {
	app.writeResult(w, app.products.Filters(r.Context()), http.StatusOK)
}

func (app *application) incrementProductView(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.products.IncrementView(r.Context(), id), http.StatusOK)
}

func (app *application) productStats(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.products.Stats(r.Context(), id), http.StatusOK)
}

func (app *application) similarProducts(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.products.Similar(r.Context(), id), http.StatusOK)
}

// --- FAVORITE HANDLERS ---

func (app *application) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID string `json:"productId"`
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

	user := app.contextUser(r)
	app.writeResult(w, app.favorites.Toggle(r.Context(), user.ID, productID), http.StatusOK)
}

func (app *application) listFavorites(w http.ResponseWriter, r *http.Request) {
	user := app.contextUser(r)
	app.writeResult(w, app.favorites.ListByUser(r.Context(), user.ID), http.StatusOK)
}

func (app *application) checkFavorite(w http.ResponseWriter, r *http.Request) {
	productID, err := readIDParam(r, "productId")
	if err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	user := app.contextUser(r)
	app.writeResult(w, app.favorites.IsFavorite(r.Context(), user.ID, productID), http.StatusOK)
}

// --- COMMENT HANDLERS ---

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	productID, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}

	var input struct {
		Content string `json:"content"`
		Rating  int    `json:"rating"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.clientError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := app.contextUser(r)
	result := app.comments.Create(r.Context(), user.ID, productID, input.Content, input.Rating)
	app.writeResult(w, result, http.StatusCreated)
}

func (app *application) listComments(w http.ResponseWriter, r *http.Request) {
	productID, err := readIDParam(r, "id")
	if err != nil {
		app.clientError(w, http.StatusNotFound, "product not found")
		return
	}
	app.writeResult(w, app.comments.ListByProduct(r.Context(), productID), http.StatusOK)
}
