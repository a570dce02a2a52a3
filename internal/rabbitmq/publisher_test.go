package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/models"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockAck struct {
	mock.Mock
}

func (m *MockAck) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *MockAck) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPublisher_PublishSubscriptionActivated(t *testing.T) {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	event := models.SubscriptionActivated{
		OrderID:   "order-1",
		UserID:    "user-1",
		Email:     "shop@example.com",
		PlanID:    "pro",
		StartDate: start,
		EndDate:   start.Add(30 * 24 * time.Hour),
	}

	tests := []struct {
		name       string
		publishErr error
		wantErr    bool
	}{
		{name: "success"},
		{name: "broker error", publishErr: errors.New("channel closed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := new(MockChannel)
			ch.On("Publish", Exchange, RoutingSubscriptionActivated, false, false,
				mock.MatchedBy(func(msg amqp.Publishing) bool {
					var got models.SubscriptionActivated
					if err := json.Unmarshal(msg.Body, &got); err != nil {
						return false
					}
					return msg.DeliveryMode == amqp.Persistent &&
						msg.ContentType == "application/json" &&
						got.OrderID == "order-1" && got.EndDate.Equal(event.EndDate)
				})).Return(tt.publishErr).Once()

			err := NewPublisher(ch).PublishSubscriptionActivated(context.Background(), event)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.publishErr)
			} else {
				assert.NoError(t, err)
			}
			ch.AssertExpectations(t)
		})
	}
}

func TestPublisher_CancelledContext(t *testing.T) {
	ch := new(MockChannel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPublisher(ch).PublishSubscriptionActivated(ctx, models.SubscriptionActivated{})
	assert.ErrorIs(t, err, context.Canceled)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_PublishMessage_MarshalError(t *testing.T) {
	ch := new(MockChannel)
	err := NewPublisher(ch).PublishMessage(Exchange, "key", make(chan int))
	require.Error(t, err)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle(t *testing.T) {
	t.Run("handler success acks", func(t *testing.T) {
		ack := new(MockAck)
		ack.On("Ack", false).Return(nil).Once()

		settle(ack, []byte("{}"), func([]byte) error { return nil }, newNoopLogger())
		ack.AssertExpectations(t)
	})

	t.Run("handler error requeues", func(t *testing.T) {
		ack := new(MockAck)
		ack.On("Nack", false, true).Return(nil).Once()

		settle(ack, []byte("{}"), func([]byte) error { return errors.New("smtp down") }, newNoopLogger())
		ack.AssertExpectations(t)
		ack.AssertNotCalled(t, "Ack", mock.Anything)
	})
}

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues()

	require.NotEmpty(t, queues)
	assert.Equal(t, QueueSubscriptionActivated, queues[0].QueueName)
	assert.Equal(t, RoutingSubscriptionActivated, queues[0].RoutingKey)

	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
}
