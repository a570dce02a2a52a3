package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/models"
)

const orderColumns = `id, user_id, plan_id, amount, status, additional_data, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o      models.Order
		amount decimal.Decimal
		extra  []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.PlanID, &amount, &o.Status, &extra,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Amount = amount
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &o.AdditionalData); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// CreateOrder сохраняет заказ в статусе pending.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	extra := order.AdditionalData
	if extra == nil {
		extra = map[string]any{}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO orders (user_id, plan_id, amount, status, additional_data)
			  VALUES ($1, $2, $3, $4, $5::jsonb)
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.q.QueryRowContext(ctx, query,
		order.UserID, order.PlanID, order.Amount.StringFixed(2), models.OrderPending, string(extraJSON)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// orderIDValid отсекает идентификаторы, которые не могут быть ключом orders.
// До запроса: ошибка приведения к uuid внутри транзакции оборвала бы её целиком.
func orderIDValid(op, orderID string) error {
	if uuid.Validate(orderID) != nil {
		return fmt.Errorf("%s: order id %q: %w", op, orderID, domain.ErrNotFound)
	}
	return nil
}

// FindOrder возвращает заказ по ID или domain.ErrNotFound.
func (s *Storage) FindOrder(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "storage.FindOrder"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if err := orderIDValid(op, orderID); err != nil {
		return nil, err
	}

	o, err := scanOrder(s.q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return o, nil
}

// MarkOrderCompleted переводит заказ из pending в completed одним условным UPDATE.
// Из двух конкурентных вызовов успешен ровно один, второй получает domain.ErrAlreadyFinalized.
func (s *Storage) MarkOrderCompleted(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "storage.MarkOrderCompleted"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	if err := orderIDValid(op, orderID); err != nil {
		return nil, err
	}

	query := `UPDATE orders
			  SET status = $2, updated_at = NOW()
			  WHERE id = $1 AND status = $3
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.q.QueryRowContext(ctx, query, orderID, models.OrderCompleted, models.OrderPending))
	if err == nil {
		return o, nil
	}
	if err = notFound(op, err); !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Строка не обновилась: заказа нет либо он уже не pending.
	var status models.OrderStatus
	err = s.q.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		return nil, notFound(op, err)
	}
	return nil, fmt.Errorf("%s: order is %s: %w", op, status, domain.ErrAlreadyFinalized)
}
