// Package product товары пользователей, 3D-модели и ссылки на виртуальную примерку.
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/virtudress/tryon-catalog/internal/cache"
	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/lib/jwt"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/upload"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// PublicProductPath путь публичной карточки товара, по нему же строится ключ кэша.
const PublicProductPath = "/api/public/product/"

// Repository хранилище товаров.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListProductsByUser(ctx context.Context, userID string) ([]*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	SetProductModel(ctx context.Context, productID, modelURL string) (*models.Product, error)
	SetTryOnLink(ctx context.Context, productID, link string) (*models.Product, error)
	OpenTryOnLink(ctx context.Context, link string) (*models.Product, error)
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
}

// UserLister список пользователей для админки.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// ImageStore сохраняет и удаляет изображения.
type ImageStore interface {
	SaveImages(files []*multipart.FileHeader) ([]string, error)
	RemoveImages(paths []string) error
}

// Invalidator сбрасывает закэшированные ответы.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Input поля нового товара.
type Input struct {
	Name        string
	Description string
	Size        string
	Color       string
	Fabric      string
}

// TryOnView данные товара, видимые по ссылке на примерку.
type TryOnView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Fabric      string `json:"fabric"`
	ModelURL    string `json:"modelUrl"`
}

// Service сервис товаров.
type Service struct {
	repo     Repository
	users    UserLister
	images   ImageStore
	links    jwt.Maker
	cache    Invalidator
	metrics  *metrics.Metrics
	log      *slog.Logger
	maxFiles int
}

// New создаёт Service. cache может быть nil.
func New(repo Repository, users UserLister, images ImageStore, links jwt.Maker, c Invalidator,
	m *metrics.Metrics, log *slog.Logger, maxFiles int) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		images:   images,
		links:    links,
		cache:    c,
		metrics:  m,
		log:      log,
		maxFiles: maxFiles,
	}
}

// CreateProduct сохраняет изображения и создаёт товар пользователя.
func (s *Service) CreateProduct(ctx context.Context, userID string, in Input, files []*multipart.FileHeader) (*models.Product, error) {
	const op = "product.CreateProduct"

	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, fmt.Errorf("%s: at most %d images allowed: %w", op, s.maxFiles, domain.ErrValidation)
	}
	images, err := s.images.SaveImages(files)
	if errors.Is(err, upload.ErrUnsupportedType) {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.repo.CreateProduct(ctx, models.Product{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Size:        strings.TrimSpace(in.Size),
		Color:       strings.TrimSpace(in.Color),
		Fabric:      strings.TrimSpace(in.Fabric),
		Images:      images,
	})
	if err != nil {
		if rmErr := s.images.RemoveImages(images); rmErr != nil {
			s.log.Error("failed to remove images of unsaved product", slog.String("op", op),
				slog.String("user_id", userID), sl.Err(rmErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListUserProducts товары пользователя.
func (s *Service) ListUserProducts(ctx context.Context, userID string) ([]*models.Product, error) {
	const op = "product.ListUserProducts"

	products, err := s.repo.ListProductsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// UserStats статистика панели пользователя.
func (s *Service) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	const op = "product.UserStats"

	stats, err := s.repo.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// ListProducts все товары.
func (s *Service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "product.ListProducts"

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// ListUsers все пользователи.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "product.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// ListUsersWithProducts пользователи вместе с их товарами.
func (s *Service) ListUsersWithProducts(ctx context.Context) ([]*models.UserWithProducts, error) {
	const op = "product.ListUsersWithProducts"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byUser := make(map[string][]*models.Product, len(users))
	for _, p := range products {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}
	result := make([]*models.UserWithProducts, 0, len(users))
	for _, u := range users {
		own := byUser[u.ID]
		if own == nil {
			own = []*models.Product{}
		}
		result = append(result, &models.UserWithProducts{User: *u, Products: own})
	}
	return result, nil
}

// AttachModel прикрепляет URL 3D-модели. Разрешены только http(s) URL.
func (s *Service) AttachModel(ctx context.Context, productID, modelURL string) (*models.Product, error) {
	const op = "product.AttachModel"

	u, err := url.Parse(strings.TrimSpace(modelURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: modelUrl must be an http(s) URL: %w", op, domain.ErrValidation)
	}
	p, err := s.repo.SetProductModel(ctx, productID, u.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, productID)
	return p, nil
}

// GenerateTryOnLink выпускает новую подписанную ссылку и заменяет ею предыдущую.
func (s *Service) GenerateTryOnLink(ctx context.Context, productID string) (*models.Product, error) {
	const op = "product.GenerateTryOnLink"

	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	link, err := s.links.GenerateToken(productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.repo.SetTryOnLink(ctx, productID, link)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, op, productID)
	return p, nil
}

// OpenTryOnLink проверяет ссылку и считает просмотр. Поддельная, просроченная или
// заменённая ссылка даёт domain.ErrNotFound.
func (s *Service) OpenTryOnLink(ctx context.Context, link string) (*TryOnView, error) {
	const op = "product.OpenTryOnLink"

	claims, err := s.links.ParseToken(link)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	p, err := s.repo.OpenTryOnLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.ID != claims.ProductID {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	s.metrics.IncTryOnViews()
	return &TryOnView{
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		Size:        p.Size,
		Fabric:      p.Fabric,
		ModelURL:    p.ModelURL,
	}, nil
}

// PublicProduct карточка товара для публичной страницы.
func (s *Service) PublicProduct(ctx context.Context, productID string) (*models.Product, error) {
	const op = "product.PublicProduct"

	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, op, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.ResponseKey(PublicProductPath+productID)); err != nil {
		s.log.Warn("failed to invalidate cached product", slog.String("op", op),
			slog.String("product_id", productID), sl.Err(err))
	}
}
