package product

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/virtudress/tryon-catalog/internal/cache"
	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/lib/jwt"
	"github.com/virtudress/tryon-catalog/internal/lib/upload"
	"github.com/virtudress/tryon-catalog/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func productResult(args mock.Arguments) (*models.Product, error) {
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *MockRepository) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	return productResult(m.Called(ctx, p))
}

func (m *MockRepository) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	return productResult(m.Called(ctx, productID))
}

func (m *MockRepository) ListProductsByUser(ctx context.Context, userID string) ([]*models.Product, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]*models.Product)
	return p, args.Error(1)
}

func (m *MockRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*models.Product)
	return p, args.Error(1)
}

func (m *MockRepository) SetProductModel(ctx context.Context, productID, modelURL string) (*models.Product, error) {
	return productResult(m.Called(ctx, productID, modelURL))
}

func (m *MockRepository) SetTryOnLink(ctx context.Context, productID, link string) (*models.Product, error) {
	return productResult(m.Called(ctx, productID, link))
}

func (m *MockRepository) OpenTryOnLink(ctx context.Context, link string) (*models.Product, error) {
	return productResult(m.Called(ctx, link))
}

func (m *MockRepository) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*models.UserStats)
	return s, args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*models.User)
	return u, args.Error(1)
}

type MockImages struct {
	mock.Mock
}

func (m *MockImages) SaveImages(files []*multipart.FileHeader) ([]string, error) {
	args := m.Called(files)
	p, _ := args.Get(0).([]string)
	return p, args.Error(1)
}

func (m *MockImages) RemoveImages(paths []string) error {
	return m.Called(paths).Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type deps struct {
	repo   *MockRepository
	users  *MockUsers
	images *MockImages
	cache  *MockInvalidator
	links  *jwt.MakerImpl
	svc    *Service
}

func newDeps() *deps {
	d := &deps{
		repo:   new(MockRepository),
		users:  new(MockUsers),
		images: new(MockImages),
		cache:  new(MockInvalidator),
		links:  jwt.NewJWTMaker("link-secret", 0),
	}
	d.svc = New(d.repo, d.users, d.images, d.links, d.cache, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)), 5)
	return d
}

func TestService_CreateProduct(t *testing.T) {
	in := Input{Name: " Dress ", Description: "Linen", Size: "M", Color: "white", Fabric: "linen"}
	files := []*multipart.FileHeader{{Filename: "a.jpg"}}

	t.Run("success", func(t *testing.T) {
		d := newDeps()
		d.images.On("SaveImages", files).Return([]string{"/uploads/x.jpg"}, nil).Once()
		d.repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
			return p.UserID == "u1" && p.Name == "Dress" && len(p.Images) == 1
		})).Return(&models.Product{ID: "p1", Name: "Dress"}, nil).Once()

		p, err := d.svc.CreateProduct(context.Background(), "u1", in, files)
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		d.repo.AssertExpectations(t)
	})

	t.Run("too many images", func(t *testing.T) {
		d := newDeps()
		many := make([]*multipart.FileHeader, 6)
		_, err := d.svc.CreateProduct(context.Background(), "u1", in, many)
		assert.ErrorIs(t, err, domain.ErrValidation)
		d.images.AssertNotCalled(t, "SaveImages", mock.Anything)
	})

	t.Run("unsupported image", func(t *testing.T) {
		d := newDeps()
		d.images.On("SaveImages", files).Return(nil, upload.ErrUnsupportedType).Once()
		_, err := d.svc.CreateProduct(context.Background(), "u1", in, files)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("insert failure removes saved images", func(t *testing.T) {
		d := newDeps()
		saved := []string{"/uploads/x.jpg", "/uploads/y.png"}
		d.images.On("SaveImages", files).Return(saved, nil).Once()
		d.images.On("RemoveImages", saved).Return(nil).Once()
		d.repo.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset")).Once()

		_, err := d.svc.CreateProduct(context.Background(), "u1", in, files)
		require.Error(t, err)
		d.images.AssertExpectations(t)
	})

	t.Run("disk failure", func(t *testing.T) {
		d := newDeps()
		d.images.On("SaveImages", files).Return(nil, errors.New("disk full")).Once()
		_, err := d.svc.CreateProduct(context.Background(), "u1", in, files)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrValidation)
	})
}

func TestService_AttachModel(t *testing.T) {
	tests := []struct {
		name     string
		modelURL string
		wantErr  error
	}{
		{name: "https url", modelURL: "https://cdn.example.com/m.glb"},
		{name: "not a url", modelURL: "model.glb", wantErr: domain.ErrValidation},
		{name: "javascript scheme", modelURL: "javascript:alert(1)", wantErr: domain.ErrValidation},
		{name: "empty", modelURL: "", wantErr: domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps()
			if tt.wantErr == nil {
				d.repo.On("SetProductModel", mock.Anything, "p1", tt.modelURL).
					Return(&models.Product{ID: "p1", ModelURL: tt.modelURL}, nil).Once()
				d.cache.On("Invalidate", mock.Anything, []string{cache.ResponseKey(PublicProductPath + "p1")}).
					Return(nil).Once()
			}

			p, err := d.svc.AttachModel(context.Background(), "p1", tt.modelURL)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.modelURL, p.ModelURL)
			d.repo.AssertExpectations(t)
			d.cache.AssertExpectations(t)
		})
	}
}

func TestService_TryOnLinkLifecycle(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	product := &models.Product{ID: "p1", Name: "Dress", Color: "white", ModelURL: "https://cdn/m.glb"}

	d.repo.On("GetProduct", mock.Anything, "p1").Return(product, nil)
	d.cache.On("Invalidate", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	var links []string
	d.repo.On("SetTryOnLink", mock.Anything, "p1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { links = append(links, args.String(2)) }).
		Return(product, nil).Twice()

	_, err := d.svc.GenerateTryOnLink(ctx, "p1")
	require.NoError(t, err)
	_, err = d.svc.GenerateTryOnLink(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.NotEqual(t, links[0], links[1])

	// Старая ссылка больше не хранится у товара.
	d.repo.On("OpenTryOnLink", mock.Anything, links[0]).Return(nil, domain.ErrNotFound).Once()
	_, err = d.svc.OpenTryOnLink(ctx, links[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d.repo.On("OpenTryOnLink", mock.Anything, links[1]).Return(product, nil).Once()
	view, err := d.svc.OpenTryOnLink(ctx, links[1])
	require.NoError(t, err)
	assert.Equal(t, &TryOnView{Name: "Dress", Color: "white", ModelURL: "https://cdn/m.glb"}, view)

	_, err = d.svc.OpenTryOnLink(ctx, "forged")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GenerateTryOnLink_UnknownProduct(t *testing.T) {
	d := newDeps()
	d.repo.On("GetProduct", mock.Anything, "nope").Return(nil, domain.ErrNotFound).Once()

	_, err := d.svc.GenerateTryOnLink(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	d.repo.AssertNotCalled(t, "SetTryOnLink", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ListUsersWithProducts(t *testing.T) {
	d := newDeps()
	d.users.On("ListUsers", mock.Anything).Return([]*models.User{{ID: "u1"}, {ID: "u2"}}, nil).Once()
	d.repo.On("ListProducts", mock.Anything).Return([]*models.Product{
		{ID: "p1", UserID: "u1"}, {ID: "p2", UserID: "u1"},
	}, nil).Once()

	got, err := d.svc.ListUsersWithProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Products, 2)
	assert.NotNil(t, got[1].Products)
	assert.Empty(t, got[1].Products)
}
