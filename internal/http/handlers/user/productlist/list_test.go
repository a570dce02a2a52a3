package productlist

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

	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/models"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListUserProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]*models.Product)
	return p, args.Error(1)
}

func TestListHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "products",
			setupMock: func(m *MockService) {
				m.On("ListUserProducts", mock.Anything, "u1").
					Return([]*models.Product{{ID: "p1", Name: "Linen shirt", Images: []string{"/uploads/a.jpg"}}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"name":"Linen shirt"`,
		},
		{
			name: "empty list is an array",
			setupMock: func(m *MockService) {
				m.On("ListUserProducts", mock.Anything, "u1").Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name: "storage failure",
			setupMock: func(m *MockService) {
				m.On("ListUserProducts", mock.Anything, "u1").Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/user/products", nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), authservice.Identity{UserID: "u1"}))
			rec := httptest.NewRecorder()

			New(log, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
