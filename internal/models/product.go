package models

import "time"

// Product товар (предмет одежды), загруженный пользователем.
// ModelURL и TryOnLink заполняет администратор.
type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	Fabric      string    `json:"fabric"`
	Images      []string  `json:"images"`
	ModelURL    string    `json:"modelUrl,omitempty"`
	TryOnLink   string    `json:"tryOnLink,omitempty"`
	TryOnCount  int64     `json:"tryOnCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserWithProducts используется в админском списке пользователей вместе с товарами.
type UserWithProducts struct {
	User
	Products []*Product `json:"products"`
}

// UserStats статистика для панели пользователя.
type UserStats struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalTryOns   int64 `json:"totalTryOns"`
}
