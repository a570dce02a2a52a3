// Package rabbitmq содержит подключение к RabbitMQ, объявление топологии уведомлений,
// публикацию событий и запуск потребителей.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/virtudress/tryon-catalog/internal/config"
)

// prefetch сколько неподтверждённых писем держит один потребитель.
const prefetch = 10

// Connect подключается к брокеру. Между попытками ждёт cfg.RabbitMQRetryDelay,
// отмена ctx прерывает ожидание.
func Connect(ctx context.Context, cfg config.RabbitMQ) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	attempts := max(cfg.RabbitMQMaxRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(cfg.RabbitMQRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("%s: after %d attempts: %w", op, attempts, lastErr)
}

// SetupChannel открывает канал и объявляет топологию: direct-обменник Exchange
// и durable-очереди из queues, привязанные к нему по своим ключам.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := declare(ch, queues); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

func declare(ch *amqp.Channel, queues []QueueConfig) error {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	const durable, autoDelete, internal, noWait = true, false, false, false
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, durable, autoDelete, internal, noWait, nil); err != nil {
		return fmt.Errorf("exchange %s: %w", Exchange, err)
	}

	for _, q := range queues {
		const exclusive = false
		if _, err := ch.QueueDeclare(q.QueueName, durable, autoDelete, exclusive, noWait, nil); err != nil {
			return fmt.Errorf("queue %s: %w", q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, noWait, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}
