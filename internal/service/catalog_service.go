package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shopcore/internal/cache"
	"shopcore/internal/errors"
	"shopcore/internal/model"
	"shopcore/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

const (
	productListCacheKey  = "catalog:products"
	categoryListCacheKey = "catalog:categories"
)

// CatalogService handles category and product operations. Listings are
// whole-collection reads with images embedded inline; the read path is
// cached in redis and invalidated on every mutation.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, id uint, name, description string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, id uint, name, description string, stock uint) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	AddProductImage(ctx context.Context, productID uint, imageURL string, isPrimary bool) (*model.ProductImage, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cache        *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, categoryListCacheKey); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, categoryListCacheKey, payload, catalogCacheTTL)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	products, err := s.productRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}
	category.Products = products
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, name, description string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	category.Name = name
	category.Description = description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	if data, _ := s.cache.Get(ctx, productListCacheKey); data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if payload, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, productListCacheKey, payload, catalogCacheTTL)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *model.Product) error {
	if _, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, name, description string, stock uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	product.Name = name
	product.Description = description
	product.Stock = stock
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) AddProductImage(ctx context.Context, productID uint, imageURL string, isPrimary bool) (*model.ProductImage, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	image := &model.ProductImage{
		ProductID: productID,
		ImageURL:  imageURL,
		IsPrimary: isPrimary,
	}
	if err := s.productRepo.AddImage(ctx, image); err != nil {
		return nil, fmt.Errorf("add product image: %w", err)
	}
	s.invalidate(ctx)
	return image, nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, productListCacheKey)
	_ = s.cache.Delete(ctx, categoryListCacheKey)
}
