package repositories

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

// ProductFilter narrows and orders a catalog listing. Zero values mean
// "no constraint".
type ProductFilter struct {
	CategoryID uint
	Brand      string
	Tier       int
	Search     string
	Sort       string
	Page       int
	PerPage    int
}

// Sort keys accepted by ProductFilter.Sort.
const (
	SortName      = "name"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTier      = "tier"
	SortNewest    = "newest"
)

var productOrders = map[string]string{
	SortName:      "brand ASC, model_name ASC, id ASC",
	SortPriceAsc:  "price ASC, id ASC",
	SortPriceDesc: "price DESC, id ASC",
	SortTier:      "tier ASC, price ASC, id ASC",
	SortNewest:    "created_at DESC, id DESC",
}

// ValidSort reports whether s is a known sort key.
func ValidSort(s string) bool {
	_, ok := productOrders[s]
	return ok
}

type ProductRepository struct{ base }

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) WithTx(tx *orm.Query) *ProductRepository {
	return &ProductRepository{base{q: tx}}
}

// List returns one page of products matching f, with Category loaded.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.query(ctx).Model(&models.Product{})

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if b := strings.TrimSpace(f.Brand); b != "" {
		q = q.Where("LOWER(brand) = ?", strings.ToLower(b))
	}
	if f.Tier != 0 {
		q = q.Where("tier = ?", f.Tier)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(brand) LIKE ? OR LOWER(model_name) LIKE ?)", like, like)
	}

	order, ok := productOrders[f.Sort]
	if !ok {
		order = productOrders[SortName]
	}

	var products []models.Product
	p, err := q.Paginate(f.Page, f.PerPage, order, &products, "Category")
	if err != nil {
		return nil, orm.Pagination{}, wrap("products: list", err)
	}
	return products, p, nil
}

// All returns the whole catalog ordered by category then name.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.query(ctx).Model(&models.Product{}).
		Preload("Category").
		Order("category_id ASC, brand ASC, model_name ASC, id ASC").
		Get(&products)
	return products, wrap("products: all", err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.query(ctx).Model(&models.Product{}).Preload("Category").Where("id = ?", id).First(&p)
	return p, notFound("products: find by id", err)
}

// FindByName looks a product up by its natural key inside a category.
func (r *ProductRepository) FindByName(ctx context.Context, categoryID uint, brand, modelName string) (models.Product, error) {
	var p models.Product
	err := r.query(ctx).Model(&models.Product{}).
		Where("category_id = ? AND LOWER(brand) = ? AND LOWER(model_name) = ?",
			categoryID, strings.ToLower(brand), strings.ToLower(modelName)).
		First(&p)
	return p, notFound("products: find by name", err)
}

// Brands returns the distinct brand names, sorted.
func (r *ProductRepository) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.query(ctx).Model(&models.Product{}).Distinct("brand").Order("brand ASC").Pluck("brand", &brands)
	return brands, wrap("products: brands", err)
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return wrap("products: create", r.query(ctx).Create(p))
}

// Update writes the editable columns of p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	n, err := r.query(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"category_id": p.CategoryID,
		"brand":       p.Brand,
		"model_name":  p.ModelName,
		"price":       p.Price,
		"tier":        p.Tier,
	})
	if err != nil {
		return wrap("products: update", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InUse reports whether any build item references the product.
func (r *ProductRepository) InUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.query(ctx).Model(&models.BuildItem{}).Where("product_id = ?", id).Count(&n)
	return n > 0, wrap("products: in use", err)
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.query(ctx).Delete(&models.Product{}, id)
	if err != nil {
		return wrap("products: delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
