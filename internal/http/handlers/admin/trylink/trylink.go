// Package trylink выпускает подписанную ссылку на виртуальную примерку товара.
// Новая ссылка заменяет предыдущую, старая перестаёт открываться.
package trylink

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

// Response токен ссылки и обновлённый товар.
type Response struct {
	Message   string          `json:"message" example:"Try-on link generated successfully"`
	TryOnLink string          `json:"tryOnLink"`
	Product   *models.Product `json:"product"`
}

// Service выпускает ссылки.
type Service interface {
	GenerateTryOnLink(ctx context.Context, productID string) (*models.Product, error)
}

// Handler выпуска ссылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ссылка на примерку
// @Tags Admin
// @Produce  json
// @Param id path string true "ID товара"
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /api/admin/products/{id}/try-on-link [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.trylink"

	productID := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("product_id", productID),
	)

	updated, err := h.service.GenerateTryOnLink(r.Context(), productID)
	if err != nil {
		log.Error("failed to generate try-on link", sl.Err(err))
		status, body := response.ErrorFor(err, "product not found")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("try-on link generated")
	render.JSON(w, r, Response{
		Message:   "Try-on link generated successfully",
		TryOnLink: updated.TryOnLink,
		Product:   updated,
	})
}
