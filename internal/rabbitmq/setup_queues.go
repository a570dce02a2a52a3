package rabbitmq

const (
	// Exchange direct-обменник уведомлений.
	Exchange = "notifications"
	// RoutingSubscriptionActivated ключ события об активации подписки.
	RoutingSubscriptionActivated = "subscription.activated"
	// QueueSubscriptionActivated очередь notification-sender для писем об активации.
	QueueSubscriptionActivated = "notifications.subscription_activated"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляются при настройке канала.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueSubscriptionActivated, RoutingKey: RoutingSubscriptionActivated},
	}
}
