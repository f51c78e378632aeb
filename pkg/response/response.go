// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status":200,"message":"...","data":{...},"errors":{...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSON writes v with status. Headers set earlier (cookies) are kept.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func write(w http.ResponseWriter, status int, body Envelope) {
	JSON(w, status, body)
}

func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

// Message is Success with a user-facing message next to the data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, Envelope{Status: http.StatusOK, Message: message, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with the field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated sends {"items": data, "pagination": {...}}.
func Paginated(w http.ResponseWriter, data interface{}, pagination orm.Pagination) {
	body := map[string]interface{}{
		"items":      data,
		"pagination": pagination,
	}
	write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: body})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
