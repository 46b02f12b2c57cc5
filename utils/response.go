package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardoctor/db"
)

// statusError is implemented by errors that carry their own HTTP status and client message.
type statusError interface {
	error
	Status() int
	Message() string
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]any{"error": true, "message": msg})
}

// RespondWithErr maps err onto a status code and writes the error body.
func RespondWithErr(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	RespondWithError(w, status, msg)
}

func StatusFor(err error) (int, string) {
	var se statusError
	switch {
	case errors.As(err, &se):
		return se.Status(), se.Message()
	case errors.Is(err, db.ErrInvalidID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, db.ErrEmptyUpdate):
		return http.StatusBadRequest, db.ErrEmptyUpdate.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
