// Package tryon открывает товар по публичной ссылке на примерку и увеличивает счётчик просмотров.
package tryon

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/services/product"
)

// Service разрешает ссылку.
type Service interface {
	OpenTryOnLink(ctx context.Context, link string) (*product.TryOnView, error)
}

// Handler публичной примерки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Товар по ссылке на примерку
// @Tags Public
// @Produce  json
// @Param link path string true "Токен ссылки"
// @Success 200 {object} product.TryOnView
// @Failure 404 {object} response.ErrorResponse "Ссылка недействительна"
// @Router /api/try-on/{link} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.tryon"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	view, err := h.service.OpenTryOnLink(r.Context(), chi.URLParam(r, "link"))
	if err != nil {
		log.Info("try-on link not resolved", sl.Err(err))
		status, body := response.ErrorFor(err, "product not found")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}
	render.JSON(w, r, view)
}
