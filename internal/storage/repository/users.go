package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/models"
)

const userColumns = `id, name, email, password_hash, website, is_admin, dashboard_access,
		subscription_plan, subscription_status, subscription_start_date, subscription_end_date,
		created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                  models.User
		plan               sql.NullString
		startDate, endDate sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Website, &u.IsAdmin,
		&u.DashboardAccess, &plan, &u.SubscriptionStatus, &startDate, &endDate,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if plan.Valid {
		u.SubscriptionPlan = &plan.String
	}
	if startDate.Valid {
		u.SubscriptionStartDate = &startDate.Time
	}
	if endDate.Valid {
		u.SubscriptionEndDate = &endDate.Time
	}
	return &u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его ID.
// Занятый email возвращает domain.ErrAlreadyExists.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	status := user.SubscriptionStatus
	if status == "" {
		status = models.SubscriptionInactive
	}

	var newID string
	query := `INSERT INTO users (name, email, password_hash, website, is_admin, dashboard_access,
			      subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.q.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Website, user.IsAdmin, user.DashboardAccess,
		status).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ActivateSubscription записывает план и окно подписки и переводит её в active.
// Единственное место, где меняются поля подписки. Нет пользователя: domain.ErrNotFound.
func (s *Storage) ActivateSubscription(ctx context.Context, userID string, sub models.Subscription) (*models.User, error) {
	const op = "storage.ActivateSubscription"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET subscription_plan = $2,
			      subscription_status = $3,
			      subscription_start_date = $4,
			      subscription_end_date = $5,
			      updated_at = $6
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.q.QueryRowContext(ctx, query,
		userID, sub.PlanID, models.SubscriptionActive, sub.StartDate, sub.EndDate, time.Now().UTC()))
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}
