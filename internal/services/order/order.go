// Package order создание и чтение заказов на покупку тарифа.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// Repository хранилище заказов.
type Repository interface {
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// Input данные нового заказа.
type Input struct {
	UserID         string
	PlanID         string
	Amount         decimal.Decimal
	AdditionalData map[string]any
}

// Service сервис заказов.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New создаёт Service.
func New(repo Repository, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, metrics: m, log: log}
}

// CreateOrder проверяет вход и сохраняет заказ в статусе pending.
// Пустые userId/planId, userId не UUID и неположительная сумма дают domain.ErrValidation.
// Существование пользователя не проверяется: заказ ссылается на него слабо.
func (s *Service) CreateOrder(ctx context.Context, in Input) (*models.Order, error) {
	const op = "order.CreateOrder"

	userID := strings.TrimSpace(in.UserID)
	planID := strings.TrimSpace(in.PlanID)
	switch {
	case userID == "" || planID == "":
		return nil, fmt.Errorf("%s: userId and planId are required: %w", op, domain.ErrValidation)
	case uuid.Validate(userID) != nil:
		return nil, fmt.Errorf("%s: userId is not a valid id: %w", op, domain.ErrValidation)
	case !in.Amount.IsPositive():
		return nil, fmt.Errorf("%s: amount must be positive: %w", op, domain.ErrValidation)
	case !in.Amount.Equal(in.Amount.Round(2)):
		return nil, fmt.Errorf("%s: amount has more than two decimals: %w", op, domain.ErrValidation)
	}

	created, err := s.repo.CreateOrder(ctx, models.Order{
		UserID:         userID,
		PlanID:         planID,
		Amount:         in.Amount,
		Status:         models.OrderPending,
		AdditionalData: in.AdditionalData,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.IncOrdersCreated()
	s.log.Info("order created",
		slog.String("op", op),
		slog.String("order_id", created.ID),
		slog.String("user_id", created.UserID),
		slog.String("plan_id", created.PlanID),
	)
	return created, nil
}

// FindOrder возвращает заказ или domain.ErrNotFound.
func (s *Service) FindOrder(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "order.FindOrder"

	o, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}
