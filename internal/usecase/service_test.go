package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
)

// MockCatalogRepository はtestify/mockを使用したモックリポジトリ
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CountBrands(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) CreateBrands(ctx context.Context, brands []*entity.CatalogBrand) error {
	args := m.Called(ctx, brands)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CatalogBrand), args.Error(1)
}

func (m *MockCatalogRepository) CountTypes(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) CreateTypes(ctx context.Context, types []*entity.CatalogType) error {
	args := m.Called(ctx, types)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindAllTypes(ctx context.Context) ([]*entity.CatalogType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CatalogType), args.Error(1)
}

func (m *MockCatalogRepository) CountItems(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) CreateItems(ctx context.Context, items []*entity.CatalogItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockCatalogRepository) FindAllItems(ctx context.Context) ([]*entity.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) FindItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CatalogItem), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func TestNewCatalogUsecase(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	usecase := NewCatalogUsecase(mockRepo)

	assert.NotNil(t, usecase)
}

func TestCatalogUsecase_GetAllItems(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockCatalogRepository)
		expectedCount int
		expectedErr   error
	}{
		{
			name: "正常系: 複数のアイテムを取得",
			setupMock: func(mockRepo *MockCatalogRepository) {
				item1, _ := entity.NewCatalogItem("Pen", "Pen", decimal.RequireFromString("19.5"), "", 3, 3)
				item2, _ := entity.NewCatalogItem("Socks", "Socks", decimal.NewFromInt(12), "", 2, 2)
				mockRepo.On("FindAllItems", mock.Anything).Return([]*entity.CatalogItem{item1, item2}, nil)
			},
			expectedCount: 2,
		},
		{
			name: "正常系: アイテムが0件",
			setupMock: func(mockRepo *MockCatalogRepository) {
				mockRepo.On("FindAllItems", mock.Anything).Return([]*entity.CatalogItem{}, nil)
			},
			expectedCount: 0,
		},
		{
			name: "異常系: データベースエラー",
			setupMock: func(mockRepo *MockCatalogRepository) {
				mockRepo.On("FindAllItems", mock.Anything).Return(nil, domainErrors.ErrDatabaseError)
			},
			expectedErr: domainErrors.ErrDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCatalogRepository)
			tt.setupMock(mockRepo)
			usecase := NewCatalogUsecase(mockRepo)

			items, err := usecase.GetAllItems(context.Background())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				mockRepo.AssertExpectations(t)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, items, tt.expectedCount)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogUsecase_GetItemByID(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		setupMock   func(*MockCatalogRepository)
		expectError bool
		expectedErr error
	}{
		{
			name: "正常系: 存在するアイテムを取得",
			id:   1,
			setupMock: func(mockRepo *MockCatalogRepository) {
				item, _ := entity.NewCatalogItem("Pen", "Pen", decimal.RequireFromString("19.5"), "", 3, 3)
				item.ID = 1
				mockRepo.On("FindItemByID", mock.Anything, int64(1)).Return(item, nil)
			},
		},
		{
			name: "異常系: 存在しないアイテム",
			id:   999,
			setupMock: func(mockRepo *MockCatalogRepository) {
				mockRepo.On("FindItemByID", mock.Anything, int64(999)).Return(nil, domainErrors.ErrItemNotFound)
			},
			expectError: true,
			expectedErr: domainErrors.ErrItemNotFound,
		},
		{
			name: "異常系: 無効なID（0以下）",
			id:   0,
			setupMock: func(mockRepo *MockCatalogRepository) {
				// FindItemByIDは呼ばれない
			},
			expectError: true,
			expectedErr: domainErrors.ErrInvalidInput,
		},
		{
			name: "異常系: データベースエラー",
			id:   1,
			setupMock: func(mockRepo *MockCatalogRepository) {
				mockRepo.On("FindItemByID", mock.Anything, int64(1)).Return(nil, domainErrors.ErrDatabaseError)
			},
			expectError: true,
			expectedErr: domainErrors.ErrDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCatalogRepository)
			tt.setupMock(mockRepo)
			usecase := NewCatalogUsecase(mockRepo)

			item, err := usecase.GetItemByID(context.Background(), tt.id)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				assert.Nil(t, item)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, item)
				assert.Equal(t, tt.id, item.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogUsecase_GetAllBrandsAndTypes(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("FindAllBrands", mock.Anything).Return([]*entity.CatalogBrand{{ID: 1, Brand: "Azure"}}, nil)
	mockRepo.On("FindAllTypes", mock.Anything).Return(nil, domainErrors.ErrDatabaseError)
	usecase := NewCatalogUsecase(mockRepo)

	brands, err := usecase.GetAllBrands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 1)

	types, err := usecase.GetAllTypes(context.Background())
	assert.ErrorIs(t, err, domainErrors.ErrDatabaseError)
	assert.Nil(t, types)

	mockRepo.AssertExpectations(t)
}

func TestOrderUsecase_GetAllOrders(t *testing.T) {
	older := &entity.Order{ID: 1, OrderDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &entity.Order{ID: 2, OrderDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name        string
		setupMock   func(*MockOrderRepository)
		expectedIDs []int64
		expectedErr error
	}{
		{
			name: "正常系: 新しい順に並ぶ",
			setupMock: func(mockRepo *MockOrderRepository) {
				mockRepo.On("FindAll", mock.Anything).Return([]*entity.Order{older, newer}, nil)
			},
			expectedIDs: []int64{2, 1},
		},
		{
			name: "異常系: 注文サービスが利用できない",
			setupMock: func(mockRepo *MockOrderRepository) {
				mockRepo.On("FindAll", mock.Anything).Return(nil, domainErrors.ErrUpstreamUnavailable)
			},
			expectedErr: domainErrors.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			tt.setupMock(mockRepo)
			usecase := NewOrderUsecase(mockRepo)

			orders, err := usecase.GetAllOrders(context.Background())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, orders)
			} else {
				require.NoError(t, err)
				ids := make([]int64, 0, len(orders))
				for _, o := range orders {
					ids = append(ids, o.ID)
				}
				assert.Equal(t, tt.expectedIDs, ids)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOrderUsecase_GetOrderByID(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		setupMock   func(*MockOrderRepository)
		expectedErr error
	}{
		{
			name: "正常系: 存在する注文を取得",
			id:   7,
			setupMock: func(mockRepo *MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, int64(7)).Return(&entity.Order{ID: 7}, nil)
			},
		},
		{
			name: "異常系: 存在しない注文",
			id:   8,
			setupMock: func(mockRepo *MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, int64(8)).Return(nil, domainErrors.ErrOrderNotFound)
			},
			expectedErr: domainErrors.ErrOrderNotFound,
		},
		{
			name:        "異常系: 無効なID",
			id:          -1,
			setupMock:   func(mockRepo *MockOrderRepository) {},
			expectedErr: domainErrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			tt.setupMock(mockRepo)
			usecase := NewOrderUsecase(mockRepo)

			order, err := usecase.GetOrderByID(context.Background(), tt.id)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, order.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
