package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantBody   string
	}{
		{name: "no checks", wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "all up", checks: map[string]Checker{"postgres": ok, "redis": ok}, wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "redis down", checks: map[string]Checker{"postgres": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable, wantBody: `"redis":"down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(log, tt.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "refused")
		})
	}
}
