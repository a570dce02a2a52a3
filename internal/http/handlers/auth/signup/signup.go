// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации сразу открывается сессия и выставляется cookie.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/validate"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
)

// Request данные регистрации.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Website  string `json:"website"`
}

// Response ответ на успешную регистрацию.
type Response struct {
	Message string `json:"message" example:"User registered successfully"`
	UserID  string `json:"userId"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Signup(ctx context.Context, in authservice.SignupInput) (string, string, error)
}

// Handler обрабатывает регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookies  middlewarectx.Cookies
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, cookies middlewarectx.Cookies) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookies:  cookies,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или email занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	userID, token, err := h.service.Signup(r.Context(), authservice.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Website:  req.Website,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		log.Info("email already registered")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("user already exists"))
		return
	}
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		status, body := response.ErrorFor(err, "invalid request")
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	h.cookies.Set(w, token)
	log.Info("user registered", slog.String("user_id", userID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Message: "User registered successfully", UserID: userID})
}
