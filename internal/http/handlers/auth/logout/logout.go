// Package logout завершает серверную сессию и удаляет cookie.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/http/middlewarectx"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
)

// Service удаляет сессию.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler обрабатывает выход.
type Handler struct {
	log     *slog.Logger
	service Service
	cookies middlewarectx.Cookies
}

// New создает Handler.
func New(log *slog.Logger, service Service, cookies middlewarectx.Cookies) *Handler {
	return &Handler{log: log, service: service, cookies: cookies}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.MessageResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if token := h.cookies.Token(r); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			log.Error("failed to destroy session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not log out"))
			return
		}
	}

	h.cookies.Clear(w)
	render.JSON(w, r, response.Message("Logged out successfully"))
}
