package models

import "time"

// SubscriptionActivated событие, публикуемое в RabbitMQ после фиксации активации подписки.
type SubscriptionActivated struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PlanID    string    `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
