package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"shopcore/internal/errors"
	"shopcore/internal/model"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) AddImage(ctx context.Context, image *model.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func TestCatalogService_ListProducts_EmbedsImages(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	mockProductRepo.On("List", mock.Anything).Return([]model.Product{
		{
			ID:         1,
			CategoryID: 1,
			Name:       "Wireless Earbuds",
			Stock:      120,
			Images: []model.ProductImage{
				{ID: 1, ProductID: 1, ImageURL: "https://cdn.example.com/img/earbuds.jpg", IsPrimary: true},
				{ID: 2, ProductID: 1, ImageURL: "https://cdn.example.com/img/earbuds-2.jpg"},
			},
		},
	}, nil)

	service := NewCatalogService(mockCategoryRepo, mockProductRepo, nil)

	products, err := service.ListProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Len(t, products[0].Images, 2)
	assert.True(t, products[0].Images[0].IsPrimary)
}

func TestCatalogService_GetCategory_WithProducts(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{
		ID: 1, Name: "Electronics",
	}, nil)
	mockProductRepo.On("ListByCategory", mock.Anything, uint(1)).Return([]model.Product{
		{ID: 1, CategoryID: 1, Name: "Wireless Earbuds"},
	}, nil)

	service := NewCatalogService(mockCategoryRepo, mockProductRepo, nil)

	category, err := service.GetCategory(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, category.Products, 1)
}

func TestCatalogService_GetCategory_NotFound(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockCategoryRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewCatalogService(mockCategoryRepo, new(MockProductRepository), nil)

	_, err := service.GetCategory(context.Background(), 404)
	assert.Equal(t, errors.ErrCategoryNotFound, err)
}

func TestCatalogService_CreateProduct_RequiresCategory(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

	service := NewCatalogService(mockCategoryRepo, mockProductRepo, nil)

	err := service.CreateProduct(context.Background(), &model.Product{Name: "Orphan", CategoryID: 8})
	assert.Equal(t, errors.ErrCategoryNotFound, err)
	mockProductRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_AddProductImage(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	mockProductRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Product{ID: 1}, nil)
	mockProductRepo.On("AddImage", mock.Anything, mock.AnythingOfType("*model.ProductImage")).Return(nil)

	service := NewCatalogService(mockCategoryRepo, mockProductRepo, nil)

	image, err := service.AddProductImage(context.Background(), 1, "https://cdn.example.com/img/x.jpg", true)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), image.ProductID)
	assert.True(t, image.IsPrimary)

	mockProductRepo.AssertExpectations(t)
}
