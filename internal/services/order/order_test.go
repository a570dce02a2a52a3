package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/metrics"
	"github.com/virtudress/tryon-catalog/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *MockRepository) FindOrder(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_CreateOrder(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name    string
		in      Input
		repoErr error
		wantErr error
		anyErr  bool
	}{
		{
			name: "pending order created",
			in: Input{UserID: userID, PlanID: "pro", Amount: decimal.RequireFromString("1000"),
				AdditionalData: map[string]any{"coupon": "X"}},
		},
		{name: "empty user", in: Input{PlanID: "pro", Amount: decimal.NewFromInt(1)}, wantErr: domain.ErrValidation},
		{name: "empty plan", in: Input{UserID: userID, Amount: decimal.NewFromInt(1)}, wantErr: domain.ErrValidation},
		{name: "user not uuid", in: Input{UserID: "u1", PlanID: "pro", Amount: decimal.NewFromInt(1)}, wantErr: domain.ErrValidation},
		{name: "zero amount", in: Input{UserID: userID, PlanID: "pro"}, wantErr: domain.ErrValidation},
		{name: "negative amount", in: Input{UserID: userID, PlanID: "pro", Amount: decimal.NewFromInt(-3)}, wantErr: domain.ErrValidation},
		{name: "fractional cents", in: Input{UserID: userID, PlanID: "pro", Amount: decimal.RequireFromString("1.005")}, wantErr: domain.ErrValidation},
		{
			name:    "repository error",
			in:      Input{UserID: userID, PlanID: "pro", Amount: decimal.NewFromInt(10)},
			repoErr: errors.New("db down"),
			anyErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, m := metrics.NewRegistry()
			svc := New(repo, m, newNoopLogger())

			if tt.wantErr == nil {
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.UserID == userID && o.PlanID == "pro" && o.Status == models.OrderPending
				})).Return(func() *models.Order {
					if tt.repoErr != nil {
						return nil
					}
					return &models.Order{ID: "order-1", UserID: userID, PlanID: "pro",
						Amount: tt.in.Amount, Status: models.OrderPending, AdditionalData: tt.in.AdditionalData}
				}(), tt.repoErr).Once()
			}

			got, err := svc.CreateOrder(context.Background(), tt.in)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			case tt.anyErr:
				assert.Error(t, err)
				assert.Equal(t, 0.0, testutil.ToFloat64(m.OrdersCreated))
			default:
				require.NoError(t, err)
				assert.Equal(t, "order-1", got.ID)
				assert.Equal(t, models.OrderPending, got.Status)
				assert.Equal(t, "X", got.AdditionalData["coupon"])
				assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_FindOrder(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindOrder", mock.Anything, "order-1").Return(&models.Order{ID: "order-1"}, nil).Once()
	repo.On("FindOrder", mock.Anything, "missing").Return(nil, domain.ErrNotFound).Once()
	svc := New(repo, nil, newNoopLogger())

	o, err := svc.FindOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)

	_, err = svc.FindOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertExpectations(t)
}
