// Package notificationsender читает события об активации подписок из RabbitMQ и отправляет письма.
package notificationsender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/virtudress/tryon-catalog/internal/config"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/smtp"
	"github.com/virtudress/tryon-catalog/internal/rabbitmq"
	senderservice "github.com/virtudress/tryon-catalog/internal/services/sender"
)

// App потребитель уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к брокеру и объявляет очереди.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "notificationsender.New"

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is not set", op)
	}
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(logger, transport),
		logger:        logger,
	}, nil
}

// Run потребляет очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handler := DropMalformed(a.senderService.SendSubscriptionActivated, a.logger)
	if err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueSubscriptionActivated, handler, a.logger); err != nil {
		a.logger.Error("failed to start consumer",
			slog.String("queue", rabbitmq.QueueSubscriptionActivated), sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}

// DropMalformed подтверждает сообщения, которые не удастся обработать никогда:
// их повторная доставка зациклила бы очередь. Остальные ошибки возвращают сообщение в очередь.
func DropMalformed(handler func([]byte) error, log *slog.Logger) func([]byte) error {
	return func(body []byte) error {
		err := handler(body)
		if errors.Is(err, senderservice.ErrBadMessage) {
			log.Error("dropping malformed notification", sl.Err(err))
			return nil
		}
		return err
	}
}
