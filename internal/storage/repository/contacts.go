package repository

import (
	"context"
	"fmt"

	"github.com/virtudress/tryon-catalog/internal/models"
)

// CreateContact сохраняет обращение из формы обратной связи.
func (s *Storage) CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	const op = "storage.CreateContact"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	created := c
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO contacts (name, email, phone, message) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Name, c.Email, c.Phone, c.Message).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}
