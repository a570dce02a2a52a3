// Package productcreate принимает новый товар пользователя вместе с изображениями (multipart/form-data).
package productcreate

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/validate"
	"github.com/virtudress/tryon-catalog/internal/models"
	"github.com/virtudress/tryon-catalog/internal/services/product"
)

// FieldImages имя поля формы с файлами изображений.
const FieldImages = "images"

const maxMemory = 8 << 20

// Request текстовые поля формы.
type Request struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Size        string `json:"size" validate:"required"`
	Color       string `json:"color" validate:"required"`
	Fabric      string `json:"fabric" validate:"required"`
}

// Response созданный товар.
type Response struct {
	Message string          `json:"message" example:"Product uploaded successfully"`
	Product *models.Product `json:"product"`
}

// Service создаёт товары.
type Service interface {
	CreateProduct(ctx context.Context, userID string, in product.Input, files []*multipart.FileHeader) (*models.Product, error)
}

// Handler загрузки товара.
type Handler struct {
	log         *slog.Logger
	service     Service
	maxBodySize int64
	validate    *validator.Validate
}

// New создает Handler. maxBodySize ограничивает размер всего тела запроса.
func New(log *slog.Logger, service Service, maxBodySize int64) *Handler {
	return &Handler{
		log:         log,
		service:     service,
		maxBodySize: maxBodySize,
		validate:    validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Загрузить товар
// @Tags User
// @Accept  multipart/form-data
// @Produce  json
// @Param name formData string true "Название"
// @Param description formData string true "Описание"
// @Param size formData string true "Размер"
// @Param color formData string true "Цвет"
// @Param fabric formData string true "Ткань"
// @Param images formData file false "Изображения (до 5)"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /api/user/product [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.productcreate"

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

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		log.Info("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	req := Request{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Size:        r.FormValue("size"),
		Color:       r.FormValue("color"),
		Fabric:      r.FormValue("fabric"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	created, err := h.service.CreateProduct(r.Context(), identity.UserID, product.Input{
		Name:        req.Name,
		Description: req.Description,
		Size:        req.Size,
		Color:       req.Color,
		Fabric:      req.Fabric,
	}, r.MultipartForm.File[FieldImages])
	if errors.Is(err, domain.ErrValidation) {
		log.Info("product rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid images"))
		return
	}
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	log.Info("product created", slog.String("product_id", created.ID), slog.Int("images", len(created.Images)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Message: "Product uploaded successfully", Product: created})
}
