// Package contact сохраняет обращения из формы обратной связи.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/virtudress/tryon-catalog/internal/models"
)

// Repository хранилище обращений.
type Repository interface {
	CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error)
}

// Service сервис обращений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Submit сохраняет обращение. Поля проверяет обработчик.
func (s *Service) Submit(ctx context.Context, c models.Contact) (*models.Contact, error) {
	const op = "contact.Submit"

	saved, err := s.repo.CreateContact(ctx, models.Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Message: strings.TrimSpace(c.Message),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("contact form submitted", slog.String("op", op), slog.String("contact_id", saved.ID))
	return saved, nil
}
