package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Submit(ctx context.Context, c models.Contact) (*models.Contact, error) {
	args := m.Called(ctx, c)
	res, _ := args.Get(0).(*models.Contact)
	return res, args.Error(1)
}

func TestSubmitHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	valid := `{"name":"Kamal","email":"kamal@example.com","phone":"0771234567","message":"Please call me back"}`
	contact := models.Contact{Name: "Kamal", Email: "kamal@example.com", Phone: "0771234567", Message: "Please call me back"}

	t.Run("saved", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Submit", mock.Anything, contact).Return(&contact, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit", strings.NewReader(valid))
		req.Header.Set("Content-Type", "application/json")
		New(log, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Contact form submitted successfully")
		svc.AssertExpectations(t)
	})

	t.Run("field errors", func(t *testing.T) {
		svc := new(MockService)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit",
			strings.NewReader(`{"name":"","email":"kamal","phone":"07712","message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		New(log, svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Errors, 4)
		assert.Contains(t, resp.Errors, "phone")
		assert.Contains(t, resp.Errors, "message")
	})

	t.Run("phone with letters", func(t *testing.T) {
		svc := new(MockService)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit",
			strings.NewReader(`{"name":"Kamal","email":"kamal@example.com","phone":"07712345ab","message":"Please call me back"}`))
		req.Header.Set("Content-Type", "application/json")
		New(log, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "phone can contain only numbers")
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Submit", mock.Anything, contact).Return(nil, errors.New("db down")).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contact/submit", strings.NewReader(valid))
		req.Header.Set("Content-Type", "application/json")
		New(log, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
