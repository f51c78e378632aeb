package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
	"github.com/shopspring/decimal"
)

const (
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTTL = 10 * time.Minute
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type ProductInput struct {
	CategoryID uint            `json:"category_id" validate:"required"`
	Brand      string          `json:"brand" validate:"required,max=50"`
	ModelName  string          `json:"model_name" validate:"required,max=100"`
	Price      decimal.Decimal `json:"price" validate:"gte=0,lte=999999"`
	Tier       int             `json:"tier" validate:"required,between=1,3"`
}

type CatalogService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		categories: repositories.NewCategoryRepository(),
		products:   repositories.NewProductRepository(),
	}
}

// ── Browsing ────────────────────────────────────────────────────────────────

func (s *CatalogService) ListProducts(ctx context.Context, f repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	return s.products.List(ctx, f)
}

// ListByCategory is ListProducts scoped to one category, which must exist.
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID uint, f repositories.ProductFilter) (models.Category, []models.Product, orm.Pagination, error) {
	cat, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return models.Category{}, nil, orm.Pagination{}, err
	}
	f.CategoryID = cat.ID
	products, p, err := s.products.List(ctx, f)
	return cat, products, p, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListCategories is served from the cache for ten minutes.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := cache.Remember(ctx, categoriesCacheKey, categoriesCacheTTL, &cats, func() (interface{}, error) {
		return s.categories.All(ctx)
	})
	return cats, err
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]string, error) {
	return s.products.Brands(ctx)
}

// ── Admin ───────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureCategoryNameFree(ctx, name, 0); err != nil {
		return models.Category{}, err
	}

	cat := models.Category{Name: name}
	if err := s.categories.Create(ctx, &cat); err != nil {
		return models.Category{}, err
	}
	s.forgetCategories(ctx)
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	name := strings.TrimSpace(in.Name)
	if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
		return models.Category{}, err
	}
	if err := s.categories.Rename(ctx, id, name); err != nil {
		return models.Category{}, err
	}
	s.forgetCategories(ctx)

	cat.Name = name
	return cat, nil
}

// DeleteCategory refuses while products still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	used, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrCategoryInUse
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.forgetCategories(ctx)
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	p := productFromInput(in)
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, err
	}
	return s.products.FindByID(ctx, p.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return models.Product{}, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	p := productFromInput(in)
	p.ID = id
	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, err
	}
	return s.products.FindByID(ctx, id)
}

// DeleteProduct refuses while any build holds the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	used, err := s.products.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrProductInUse
	}
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ensureCategory(ctx context.Context, id uint) error {
	_, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ValidationError{"category_id": "The selected category does not exist."}
	}
	return err
}

func (s *CatalogService) ensureCategoryNameFree(ctx context.Context, name string, self uint) error {
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return ValidationError{"name": "The name has already been taken."}
	}
	return nil
}

func (s *CatalogService) forgetCategories(ctx context.Context) {
	if err := cache.Forget(ctx, categoriesCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("category cache invalidation failed", "error", err)
	}
}

func productFromInput(in ProductInput) models.Product {
	return models.Product{
		CategoryID: in.CategoryID,
		Brand:      strings.TrimSpace(in.Brand),
		ModelName:  strings.TrimSpace(in.ModelName),
		Price:      in.Price.Round(2),
		Tier:       in.Tier,
	}
}
