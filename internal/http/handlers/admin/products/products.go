// Package products отдаёт администратору товары всех пользователей.
package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Service загружает данные для админки.
type Service interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

// Handler отдаёт список целиком.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех товаров
// @Tags Admin
// @Produce  json
// @Success 200 {array} models.Product
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Не администратор"
// @Router /api/admin/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.products"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListProducts(r.Context())
	if err != nil {
		log.Error("failed to load list", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}
	if res == nil {
		res = []*models.Product{}
	}
	render.JSON(w, r, res)
}
