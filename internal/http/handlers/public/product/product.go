// Package product отдаёт публичную карточку товара. Ответ кэшируется middleware кэша.
package product

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Service загружает товар.
type Service interface {
	PublicProduct(ctx context.Context, productID string) (*models.Product, error)
}

// Handler публичного товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичная карточка товара
// @Tags Public
// @Produce  json
// @Param productId path string true "ID товара"
// @Success 200 {object} models.Product
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /api/public/product/{productId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.public.product"

	productID := chi.URLParam(r, "productId")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("product_id", productID),
	)

	res, err := h.service.PublicProduct(r.Context(), productID)
	if err != nil {
		log.Info("failed to load product", sl.Err(err))
		status, body := response.ErrorFor(err, "product not found")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}
	render.JSON(w, r, res)
}
