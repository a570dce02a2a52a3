// Package health отвечает на проверки живости и готовности.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/lib/sl"
)

// Checker проверяет зависимость: базу, Redis.
type Checker func(ctx context.Context) error

// Handler health-check.
type Handler struct {
	log    *slog.Logger
	checks map[string]Checker
}

// New создает Handler. Без checks всегда отвечает ok.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{log: log, checks: checks}
}

// ServeHTTP godoc
// @Summary Health-check
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := map[string]string{"status": "ok"}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Error("dependency is not ready", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			res["status"] = "unavailable"
			res[name] = "down"
		}
	}
	if res["status"] != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, res)
}
