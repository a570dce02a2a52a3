// Package services содержит логику регистрации, входа и проверки серверных сессий,
// а также решение о доступе к административным маршрутам.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/lib/password"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/models"
	"github.com/virtudress/tryon-catalog/internal/session"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore хранилище сессий с TTL.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, *session.Session, error)
	Get(ctx context.Context, token string) (*session.Session, error)
	Delete(ctx context.Context, token string) error
}

// Identity пользователь, которому принадлежит сессия.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Decision результат проверки прав администратора.
type Decision int

const (
	// Forbidden доступ запрещён.
	Forbidden Decision = iota
	// Authorized доступ разрешён.
	Authorized
)

// RequireAdmin разрешает доступ только администраторам. Признак берётся из записи пользователя.
func RequireAdmin(identity Identity) Decision {
	if identity.IsAdmin {
		return Authorized
	}
	return Forbidden
}

// SignupInput данные регистрации.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Website  string
}

// AuthService отвечает за регистрацию, вход и проверку сессий.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionStore, m *metrics.Metrics, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		metrics:  m,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup регистрирует пользователя и сразу открывает для него сессию.
// Возвращает ID пользователя и токен сессии.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, string, error) {
	const op = "auth.Signup"

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	userID, err := s.users.RegisterUser(ctx, models.User{
		Name:               strings.TrimSpace(in.Name),
		Email:              normalizeEmail(in.Email),
		PasswordHash:       hashed,
		Website:            strings.TrimSpace(in.Website),
		SubscriptionStatus: models.SubscriptionInactive,
	})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.startSession(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return userID, token, nil
}

// Login проверяет пароль и открывает сессию. Неизвестный email и неверный пароль
// неразличимы: оба дают domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Warn("stored password hash is unusable", slog.String("op", op),
				slog.String("user_id", user.ID), sl.Err(err))
		}
		return "", "", fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return user.ID, token, nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) (string, error) {
	token, _, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", err
	}
	s.metrics.IncSessionsCreated()
	return token, nil
}

// Logout удаляет сессию.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Authenticate разрешает токен сессии в Identity. Отсутствующая, истёкшая сессия
// или удалённый пользователь дают domain.ErrUnauthenticated, сбой хранилища возвращается как есть.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	const op = "auth.Authenticate"

	sess, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Identity{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}

// CurrentUser возвращает запись пользователя сессии.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "auth.CurrentUser"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// EnsureAdmin создаёт администратора, если email свободен. created=false, если пользователь уже был.
func (s *AuthService) EnsureAdmin(ctx context.Context, in SignupInput) (string, bool, error) {
	const op = "auth.EnsureAdmin"

	existing, err := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	userID, err := s.users.RegisterUser(ctx, models.User{
		Name:               strings.TrimSpace(in.Name),
		Email:              normalizeEmail(in.Email),
		PasswordHash:       hashed,
		Website:            strings.TrimSpace(in.Website),
		IsAdmin:            true,
		DashboardAccess:    true,
		SubscriptionStatus: models.SubscriptionInactive,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		u, getErr := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
		if getErr != nil {
			return "", false, fmt.Errorf("%s: %w", op, getErr)
		}
		return u.ID, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return userID, true, nil
}
