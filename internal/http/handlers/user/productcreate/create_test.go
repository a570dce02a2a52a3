package productcreate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/models"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
	"github.com/virtudress/tryon-catalog/internal/services/product"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateProduct(ctx context.Context, userID string, in product.Input, files []*multipart.FileHeader) (*models.Product, error) {
	args := m.Called(ctx, userID, in, files)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func multipartBody(t *testing.T, fields map[string]string, images int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		fw, err := mw.CreateFormFile(FieldImages, fmt.Sprintf("img%d.jpg", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("\xff\xd8\xff\xe0 fake jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestProductCreateHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fields := map[string]string{
		"name": "Linen shirt", "description": "Loose fit", "size": "M", "color": "white", "fabric": "linen",
	}
	input := product.Input{Name: "Linen shirt", Description: "Loose fit", Size: "M", Color: "white", Fabric: "linen"}

	tests := []struct {
		name       string
		fields     map[string]string
		images     int
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "created with images",
			fields: fields,
			images: 2,
			setupMock: func(m *MockService) {
				m.On("CreateProduct", mock.Anything, "u1", input, mock.MatchedBy(func(f []*multipart.FileHeader) bool {
					return len(f) == 2
				})).Return(&models.Product{ID: "p1", Name: "Linen shirt", Images: []string{"/uploads/1.jpg", "/uploads/2.jpg"}}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"id":"p1"`,
		},
		{
			name:       "missing fabric",
			fields:     map[string]string{"name": "Linen shirt", "description": "d", "size": "M", "color": "white"},
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"fabric":"fabric is required"`,
		},
		{
			name:   "too many images",
			fields: fields,
			images: 6,
			setupMock: func(m *MockService) {
				m.On("CreateProduct", mock.Anything, "u1", input, mock.Anything).
					Return(nil, fmt.Errorf("product.CreateProduct: %w", domain.ErrValidation)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			body, contentType := multipartBody(t, tt.fields, tt.images)
			req := httptest.NewRequest(http.MethodPost, "/api/user/product", body)
			req.Header.Set("Content-Type", contentType)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), authservice.Identity{UserID: "u1"}))
			rec := httptest.NewRecorder()

			New(log, svc, 1<<20).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductCreateHandler_NotMultipart(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := new(MockService)

	req := httptest.NewRequest(http.MethodPost, "/api/user/product", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), authservice.Identity{UserID: "u1"}))
	rec := httptest.NewRecorder()

	New(log, svc, 1<<20).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateProduct")
}
