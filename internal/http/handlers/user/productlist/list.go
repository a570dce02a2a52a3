// Package productlist отдаёт товары текущего пользователя.
package productlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Service загружает товары пользователя.
type Service interface {
	ListUserProducts(ctx context.Context, userID string) ([]*models.Product, error)
}

// Handler списка товаров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои товары
// @Tags User
// @Produce  json
// @Success 200 {array} models.Product
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /api/user/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.productlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ListUserProducts(r.Context(), identity.UserID)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}
	if res == nil {
		res = []*models.Product{}
	}
	log.Debug("products listed", slog.Int("count", len(res)))
	render.JSON(w, r, res)
}
