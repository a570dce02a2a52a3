// Package notify принимает серверные уведомления PayHere о результате оплаты.
//
// Ответ 200 означает, что уведомление учтено и повторять его не нужно;
// 400 уведомление отклонено; 500 шлюзу следует повторить доставку.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/services/payment"
)

// Response результат обработки уведомления.
type Response struct {
	Status  string `json:"status" example:"OK"`
	Outcome string `json:"outcome" example:"activated"`
}

// Activator обрабатывает проверенные уведомления.
type Activator interface {
	HandleNotification(ctx context.Context, n payment.Notification) (payment.Outcome, error)
}

// Handler принимает уведомления шлюза.
type Handler struct {
	log       *slog.Logger
	activator Activator
}

// New создает Handler.
func New(log *slog.Logger, activator Activator) *Handler {
	return &Handler{log: log, activator: activator}
}

// ServeHTTP godoc
// @Summary Уведомление PayHere
// @Description Проверяет подпись md5sig и активирует подписку по оплаченному заказу.
// @Tags Payments
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или формат"
// @Failure 500 {object} response.ErrorResponse "Повторите доставку"
// @Router /api/payhere-notify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.notify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse notification form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid notification"))
		return
	}

	n, err := payment.ParseNotification(r.PostForm)
	if err != nil {
		log.Warn("malformed notification", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid notification"))
		return
	}
	log = log.With(slog.String("order_id", n.OrderID), slog.Int("status_code", n.StatusCode))

	outcome, err := h.activator.HandleNotification(r.Context(), n)
	switch {
	case errors.Is(err, domain.ErrSignatureMismatch):
		log.Warn("notification signature mismatch")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	case errors.Is(err, domain.ErrValidation):
		log.Warn("notification rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid notification"))
		return
	case err != nil:
		log.Error("failed to process notification", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	log.Info("notification processed", slog.String("outcome", string(outcome)))
	render.JSON(w, r, Response{Status: response.StatusOK, Outcome: string(outcome)})
}
