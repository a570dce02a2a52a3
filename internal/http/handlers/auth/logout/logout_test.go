package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestLogoutHandler(t *testing.T) {
	cookies := middlewarectx.Cookies{Name: "tryon_sid", TTL: time.Hour}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		token      string
		mockErr    error
		wantStatus int
	}{
		{name: "with session", token: "tok", wantStatus: http.StatusOK},
		{name: "without cookie", wantStatus: http.StatusOK},
		{name: "store failure", token: "tok", mockErr: errors.New("redis down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.token != "" {
				svc.On("Logout", mock.Anything, tt.token).Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: cookies.Name, Value: tt.token})
			}
			rec := httptest.NewRecorder()

			New(log, svc, cookies).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
				assert.Contains(t, rec.Body.String(), "Logged out successfully")
			}
			svc.AssertExpectations(t)
		})
	}
}
