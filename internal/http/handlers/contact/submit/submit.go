// Package submit принимает сообщения из формы обратной связи.
package submit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/validate"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Request поля формы. Телефон ровно 10 цифр, сообщение не короче 10 символов.
type Request struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,len=10,numeric"`
	Message string `json:"message" validate:"required,min=10"`
}

// Service сохраняет обращение.
type Service interface {
	Submit(ctx context.Context, c models.Contact) (*models.Contact, error)
}

// Handler формы обратной связи.
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
// @Summary Форма обратной связи
// @Tags Public
// @Accept  json
// @Produce  json
// @Param request body Request true "Обращение"
// @Success 201 {object} response.MessageResponse
// @Failure 400 {object} response.ValidationResponse "Ошибки по полям"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/contact/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
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

	if _, err := h.service.Submit(r.Context(), models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}); err != nil {
		log.Error("failed to save contact message", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Message("Contact form submitted successfully"))
}
