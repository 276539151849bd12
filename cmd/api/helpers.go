package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"webshop/internal/services"
)

// envelope is the JSON shape of every response: the service Result with
// its status tag translated to a success flag and an HTTP code.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (app *application) writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		app.errorLog.Println(err)
	}
}

// writeResult maps a service Result onto the wire; successStatus is used
// when the result is OK (200 for reads, 201 for creations).
func (app *application) writeResult(w http.ResponseWriter, result services.Result, successStatus int) {
	status := successStatus
	if !result.OK() {
		status = httpStatus(result.Status)
	}
	app.writeJSON(w, status, envelope{
		Success: result.OK(),
		Message: result.Message,
		Data:    result.Data,
	})
}

func httpStatus(s services.Status) int {
	switch s {
	case services.StatusNotFound:
		return http.StatusNotFound
	case services.StatusInvalidInput:
		return http.StatusBadRequest
	case services.StatusInsufficientStock:
		return http.StatusConflict
	case services.StatusUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	app.errorLog.Println(err)
	app.writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "something went wrong, please try again",
	})
}

func (app *application) clientError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{Success: false, Message: message})
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

var errInvalidID = errors.New("invalid object id")

// readIDParam pulls a pat URL parameter and parses it as an ObjectID.
func readIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get(":" + name))
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}
