package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/virtudress/tryon-catalog/internal/migrations"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err, "failed to create storage")
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, filepath.Join(root, "migrations"))
	require.NoError(t, err)

	return storage
}

// TestDataFactory создаёт тестовые записи.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	id, err := f.storage.RegisterUser(context.Background(), models.User{
		Name:         "Test Shop",
		Email:        email,
		PasswordHash: "hashedpassword",
		Website:      "https://shop.example.com",
		IsAdmin:      isAdmin,
	})
	require.NoError(t, err)
	return id
}

// CreateProduct создает товар пользователя
func (f *TestDataFactory) CreateProduct(t *testing.T, userID, name string) *models.Product {
	t.Helper()
	p, err := f.storage.CreateProduct(context.Background(), models.Product{
		UserID:      userID,
		Name:        name,
		Description: "Linen summer dress",
		Size:        "M",
		Color:       "white",
		Fabric:      "linen",
		Images:      []string{"/uploads/a.jpg", "/uploads/b.png"},
	})
	require.NoError(t, err)
	return p
}
