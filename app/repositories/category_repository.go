package repositories

import (
	"context"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

type CategoryRepository struct{ base }

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) WithTx(tx *orm.Query) *CategoryRepository {
	return &CategoryRepository{base{q: tx}}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.query(ctx).Model(&models.Category{}).Order("name ASC").Get(&cats)
	return cats, wrap("categories: all", err)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (models.Category, error) {
	var cat models.Category
	err := r.query(ctx).Model(&models.Category{}).Where("id = ?", id).First(&cat)
	return cat, notFound("categories: find by id", err)
}

// FindByName matches case-insensitively.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (models.Category, error) {
	var cat models.Category
	err := r.query(ctx).Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name).First(&cat)
	return cat, notFound("categories: find by name", err)
}

func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	return wrap("categories: create", r.query(ctx).Create(cat))
}

func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) error {
	n, err := r.query(ctx).Model(&models.Category{}).Where("id = ?", id).UpdateColumn("name", name)
	if err != nil {
		return wrap("categories: rename", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasProducts reports whether any product still points at the category.
func (r *CategoryRepository) HasProducts(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.query(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n)
	return n > 0, wrap("categories: has products", err)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.query(ctx).Delete(&models.Category{}, id)
	if err != nil {
		return wrap("categories: delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
