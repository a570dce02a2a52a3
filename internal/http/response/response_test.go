package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/lib/validate"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", fmt.Errorf("op: %w", domain.ErrValidation), http.StatusBadRequest},
		{"signature", domain.ErrSignatureMismatch, http.StatusBadRequest},
		{"duplicate", domain.ErrAlreadyExists, http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("a: %w", fmt.Errorf("b: %w", domain.ErrNotFound)), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorForHidesInternalDetails(t *testing.T) {
	status, body := ErrorFor(errors.New("pq: connection refused to 10.0.0.3"), "could not load")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, InternalError, body.Error)

	status, body = ErrorFor(domain.ErrNotFound, "product not found")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "product not found", body.Error)
	assert.Equal(t, StatusError, body.Status)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Phone   string `json:"phone" validate:"required,len=10,numeric"`
		Message string `json:"message" validate:"required,min=10"`
	}

	err := validate.New().Struct(form{Email: "nope", Phone: "123", Message: "short"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "name is required", resp.Errors["name"])
	assert.Equal(t, "invalid email address", resp.Errors["email"])
	assert.Equal(t, "phone must be exactly 10 characters", resp.Errors["phone"])
	assert.Equal(t, "message must be at least 10 characters", resp.Errors["message"])
}
