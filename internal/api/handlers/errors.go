package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"confshare/internal/core/domain"
)

// HandleError maps service and validation failures onto HTTP statuses.
// Crypto details never leak to the client; they are logged upstream.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		http.Error(w, `{"message": "Validation failed: `+validationErrs[0].Field()+`"}`, http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, `{"message": "Configuration not found"}`, http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, `{"message": "Configuration already exists"}`, http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidPayload):
		http.Error(w, `{"message": "Encrypted payload is malformed or undecryptable"}`, http.StatusUnprocessableEntity)
	default:
		http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
	}
}
