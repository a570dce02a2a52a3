package products

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/virtudress/tryon-catalog/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.Product)
	return res, args.Error(1)
}

func TestHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "list",
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything).Return([]*models.Product{{ID: "p1", Name: "Saree"}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"name":"Saree"`,
		},
		{
			name: "empty",
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name: "storage failure",
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			New(log, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "$2a$12$hash")
			svc.AssertExpectations(t)
		})
	}
}
