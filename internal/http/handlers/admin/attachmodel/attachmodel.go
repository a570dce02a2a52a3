// Package attachmodel прикрепляет к товару ссылку на 3D-модель.
package attachmodel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/validate"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Request ссылка на модель.
type Request struct {
	ModelURL string `json:"modelUrl" validate:"required,url"`
}

// Response обновлённый товар.
type Response struct {
	Message string          `json:"message" example:"Model attached successfully"`
	Product *models.Product `json:"product"`
}

// Service обновляет товар.
type Service interface {
	AttachModel(ctx context.Context, productID, modelURL string) (*models.Product, error)
}

// Handler прикрепления модели.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validate.New()}
}

// ServeHTTP godoc
// @Summary Прикрепить 3D-модель
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "ID товара"
// @Param request body Request true "Ссылка на модель"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректная ссылка"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /api/admin/products/{id}/model [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.attachmodel"

	productID := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("product_id", productID),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	updated, err := h.service.AttachModel(r.Context(), productID, req.ModelURL)
	if err != nil {
		log.Error("failed to attach model", sl.Err(err))
		status, body := response.ErrorFor(err, "could not attach model")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("model attached")
	render.JSON(w, r, Response{Message: "Model attached successfully", Product: updated})
}
