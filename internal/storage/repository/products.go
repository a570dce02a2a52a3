package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/virtudress/tryon-catalog/internal/models"
)

const productColumns = `id, user_id, name, description, size, color, fabric, images, model_url,
		try_on_link, try_on_count, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p      models.Product
		images []byte
		link   sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Size, &p.Color, &p.Fabric,
		&images, &p.ModelURL, &link, &p.TryOnCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	p.TryOnLink = link.String
	return &p, nil
}

func (s *Storage) listProducts(ctx context.Context, op, query string, args ...any) ([]*models.Product, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateProduct сохраняет товар пользователя.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO products (user_id, name, description, size, color, fabric, images)
			  VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
			  RETURNING ` + productColumns
	created, err := scanProduct(s.q.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Size, p.Color, p.Fabric, string(imagesJSON)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// ListProductsByUser возвращает товары одного пользователя.
func (s *Storage) ListProductsByUser(ctx context.Context, userID string) ([]*models.Product, error) {
	const op = "storage.ListProductsByUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	return s.listProducts(ctx, op,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
}

// ListProducts возвращает все товары.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	return s.listProducts(ctx, op,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
}

// SetProductModel прикрепляет к товару URL 3D-модели.
func (s *Storage) SetProductModel(ctx context.Context, productID, modelURL string) (*models.Product, error) {
	const op = "storage.SetProductModel"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.q.QueryRowContext(ctx,
		`UPDATE products SET model_url = $2, updated_at = NOW() WHERE id = $1 RETURNING `+productColumns,
		productID, modelURL))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// SetTryOnLink заменяет ссылку на примерку. Старая ссылка перестаёт находиться.
func (s *Storage) SetTryOnLink(ctx context.Context, productID, link string) (*models.Product, error) {
	const op = "storage.SetTryOnLink"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.q.QueryRowContext(ctx,
		`UPDATE products SET try_on_link = $2, updated_at = NOW() WHERE id = $1 RETURNING `+productColumns,
		productID, link))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// OpenTryOnLink находит товар по ссылке и увеличивает счётчик примерок.
func (s *Storage) OpenTryOnLink(ctx context.Context, link string) (*models.Product, error) {
	const op = "storage.OpenTryOnLink"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.q.QueryRowContext(ctx,
		`UPDATE products SET try_on_count = try_on_count + 1 WHERE try_on_link = $1 RETURNING `+productColumns,
		link))
	if err != nil {
		return nil, notFound(op, err)
	}
	return p, nil
}

// UserStats считает товары и примерки пользователя.
func (s *Storage) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	const op = "storage.UserStats"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var stats models.UserStats
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(try_on_count), 0)::bigint FROM products WHERE user_id = $1`, userID).
		Scan(&stats.TotalProducts, &stats.TotalTryOns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}
