package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// StatusSuccess код статуса успешной оплаты.
const StatusSuccess = 2

// DefaultPeriod длительность оплаченной подписки.
const DefaultPeriod = 30 * 24 * time.Hour

// Outcome итог обработки проверенного уведомления. На каждый из них шлюзу отвечают 200.
type Outcome string

const (
	OutcomeIgnored          Outcome = "ignored"
	OutcomeActivated        Outcome = "activated"
	OutcomeAlreadyFinalized Outcome = "already_finalized"
	OutcomeOrderNotFound    Outcome = "order_not_found"
	OutcomeUserMissing      Outcome = "user_missing"
)

// Ledger операции хранилища, выполняемые внутри одной транзакции.
type Ledger interface {
	MarkOrderCompleted(ctx context.Context, orderID string) (*models.Order, error)
	ActivateSubscription(ctx context.Context, userID string, sub models.Subscription) (*models.User, error)
}

// TxManager выполняет fn в транзакции: ошибка fn откатывает всё.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, ledger Ledger) error) error
}

// EventPublisher публикует событие после фиксации активации.
type EventPublisher interface {
	PublishSubscriptionActivated(ctx context.Context, event models.SubscriptionActivated) error
}

// Activator проверяет уведомления и активирует подписки.
type Activator struct {
	verifier *Verifier
	tx       TxManager
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *slog.Logger
	period   time.Duration
	now      func() time.Time
}

// Option настройка Activator.
type Option func(*Activator)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(a *Activator) { a.now = now }
}

// WithPeriod задаёт длительность подписки.
func WithPeriod(period time.Duration) Option {
	return func(a *Activator) {
		if period > 0 {
			a.period = period
		}
	}
}

// WithEvents включает публикацию событий.
func WithEvents(events EventPublisher) Option {
	return func(a *Activator) { a.events = events }
}

// WithMetrics включает счётчики исходов.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Activator) { a.metrics = m }
}

// NewActivator создаёт Activator.
func NewActivator(verifier *Verifier, tx TxManager, log *slog.Logger, opts ...Option) *Activator {
	a := &Activator{
		verifier: verifier,
		tx:       tx,
		log:      log,
		period:   DefaultPeriod,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleNotification проверяет подпись и, если оплата успешна, в одной транзакции
// переводит заказ в completed и активирует подписку владельца заказа.
//
// Ошибки: domain.ErrSignatureMismatch при неверной подписи (состояние не меняется),
// любая другая ошибка означает, что транзакция не зафиксирована и шлюз должен повторить доставку.
func (a *Activator) HandleNotification(ctx context.Context, n Notification) (Outcome, error) {
	const op = "payment.HandleNotification"

	log := a.log.With(
		slog.String("op", op),
		slog.String("order_id", n.OrderID),
		slog.Int("status_code", n.StatusCode),
	)

	if err := a.verifier.Verify(n); err != nil {
		log.Warn("payment notification signature mismatch")
		a.metrics.IncPaymentNotification("signature_mismatch")
		return "", err
	}

	if n.StatusCode != StatusSuccess {
		log.Info("payment notification with non-success status acknowledged")
		a.metrics.IncPaymentNotification(string(OutcomeIgnored))
		return OutcomeIgnored, nil
	}

	// Такого ключа в orders быть не может, транзакция не нужна.
	if uuid.Validate(n.OrderID) != nil {
		log.Warn("payment notification for malformed order id acknowledged")
		a.metrics.IncPaymentNotification(string(OutcomeOrderNotFound))
		return OutcomeOrderNotFound, nil
	}

	var (
		outcome Outcome
		event   models.SubscriptionActivated
	)
	err := a.tx.WithinTx(ctx, func(ctx context.Context, ledger Ledger) error {
		order, err := ledger.MarkOrderCompleted(ctx, n.OrderID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			outcome = OutcomeOrderNotFound
			return nil
		case errors.Is(err, domain.ErrAlreadyFinalized):
			outcome = OutcomeAlreadyFinalized
			return nil
		case err != nil:
			return err
		}

		start := a.now().UTC()
		sub := models.Subscription{PlanID: order.PlanID, StartDate: start, EndDate: start.Add(a.period)}
		user, err := ledger.ActivateSubscription(ctx, order.UserID, sub)
		if errors.Is(err, domain.ErrNotFound) {
			outcome = OutcomeUserMissing
			return nil
		}
		if err != nil {
			return err
		}

		outcome = OutcomeActivated
		event = models.SubscriptionActivated{
			OrderID:   order.ID,
			UserID:    user.ID,
			Email:     user.Email,
			Name:      user.Name,
			PlanID:    sub.PlanID,
			StartDate: sub.StartDate,
			EndDate:   sub.EndDate,
		}
		return nil
	})
	if err != nil {
		log.Error("failed to apply payment notification", sl.Err(err))
		a.metrics.IncPaymentNotification("error")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	a.metrics.IncPaymentNotification(string(outcome))
	switch outcome {
	case OutcomeActivated:
		log.Info("subscription activated",
			slog.String("user_id", event.UserID),
			slog.String("plan_id", event.PlanID),
			slog.Time("end_date", event.EndDate),
		)
		a.publish(ctx, log, event)
	case OutcomeUserMissing:
		log.Warn("order completed but its user does not exist, activation skipped")
	case OutcomeOrderNotFound:
		log.Warn("payment notification for unknown order acknowledged")
	case OutcomeAlreadyFinalized:
		log.Info("repeated payment notification acknowledged")
	}
	return outcome, nil
}

func (a *Activator) publish(ctx context.Context, log *slog.Logger, event models.SubscriptionActivated) {
	if a.events == nil {
		return
	}
	if err := a.events.PublishSubscriptionActivated(ctx, event); err != nil {
		log.Error("failed to publish subscription activated event", sl.Err(err))
	}
}
