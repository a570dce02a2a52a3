package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа. Переходы только pending -> completed или pending -> failed.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

// Order намерение оплатить тариф. UserID слабая ссылка: пользователь может не существовать.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	PlanID         string          `json:"planId"`
	Amount         decimal.Decimal `json:"amount"`
	Status         OrderStatus     `json:"status"`
	AdditionalData map[string]any  `json:"additionalData,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
