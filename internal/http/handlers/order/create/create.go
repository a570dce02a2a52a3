// Package create реализует HTTP-обработчик создания заказа на покупку тарифа.
//
// Тело запроса JSON с полями userId, planId, amount; все остальные поля
// сохраняются как дополнительные данные заказа.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/models"
	"github.com/virtudress/tryon-catalog/internal/services/order"
)

// Request пример тела запроса для документации. Дополнительные поля допустимы.
type Request struct {
	UserID string          `json:"userId" example:"6f1c1b7e-3a51-4a53-9a53-4a1e8f0d9c11"`
	PlanID string          `json:"planId" example:"pro"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
}

// Response идентификатор созданного заказа.
type Response struct {
	OrderID string `json:"orderId"`
}

// Service описывает бизнес-логику заказов.
type Service interface {
	CreateOrder(ctx context.Context, in order.Input) (*models.Order, error)
}

// Handler создаёт заказы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

var errBadField = errors.New("field has wrong type")

// ServeHTTP godoc
// @Summary Создать заказ
// @Description Создаёт заказ в статусе pending. Лишние поля тела сохраняются в additionalData.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body Request true "Заказ"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Не хватает полей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/create-order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var raw map[string]json.RawMessage
	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	in, err := parseInput(raw)
	if err != nil {
		log.Info("malformed order fields", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	created, err := h.service.CreateOrder(r.Context(), in)
	if errors.Is(err, domain.ErrValidation) {
		log.Info("order rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing required fields"))
		return
	}
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.InternalError))
		return
	}

	log.Info("order created", slog.String("order_id", created.ID), slog.String("plan_id", created.PlanID))
	render.JSON(w, r, Response{OrderID: created.ID})
}

func parseInput(raw map[string]json.RawMessage) (order.Input, error) {
	var in order.Input
	extra := make(map[string]any)

	for key, value := range raw {
		var err error
		switch key {
		case "userId":
			err = json.Unmarshal(value, &in.UserID)
		case "planId":
			err = json.Unmarshal(value, &in.PlanID)
		case "amount":
			err = json.Unmarshal(value, &in.Amount)
		default:
			var v any
			err = json.Unmarshal(value, &v)
			extra[key] = v
		}
		if err != nil {
			return order.Input{}, errors.Join(errBadField, err)
		}
	}

	if len(extra) > 0 {
		in.AdditionalData = extra
	}
	return in, nil
}
