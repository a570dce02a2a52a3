// Package models содержит доменные структуры каталога примерки: пользователя с его подпиской,
// заказ на покупку тарифа, товар и обращение из формы обратной связи.
// Структуры используются в бизнес-логике, хранилище и при формировании JSON-ответов.
package models

import "time"

// SubscriptionStatus состояние подписки пользователя.
type SubscriptionStatus string

const (
	// SubscriptionInactive значение по умолчанию после регистрации.
	SubscriptionInactive SubscriptionStatus = "inactive"
	// SubscriptionActive выставляется только активатором подписки после успешной оплаты.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionCancelled подписка отменена.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// User представляет зарегистрированного пользователя (владельца магазина или администратора).
type User struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	Email                 string             `json:"email"`
	PasswordHash          string             `json:"-"`
	Website               string             `json:"website"`
	IsAdmin               bool               `json:"isAdmin"`
	DashboardAccess       bool               `json:"dashboardAccess"`
	SubscriptionPlan      *string            `json:"subscriptionPlan"`
	SubscriptionStatus    SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionStartDate *time.Time         `json:"subscriptionStartDate"`
	SubscriptionEndDate   *time.Time         `json:"subscriptionEndDate"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// Subscription окно подписки, которое записывает активатор.
type Subscription struct {
	PlanID    string
	StartDate time.Time
	EndDate   time.Time
}
