package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

// recentFirst orders builds by last modification, never-modified builds by
// creation time, and breaks ties on id so the order is total.
const recentFirst = "COALESCE(updated_at, created_at) DESC, created_at DESC, id DESC"

type BuildRepository struct{ base }

func NewBuildRepository() *BuildRepository {
	return &BuildRepository{}
}

func (r *BuildRepository) WithTx(tx *orm.Query) *BuildRepository {
	return &BuildRepository{base{q: tx}}
}

func withItems(q *orm.Query) *orm.Query {
	return q.Preload("Items.Product.Category")
}

// sortItems puts lines in insertion order; preloads come back in whatever
// order the database returns them.
func sortItems(b *models.Build) {
	sort.Slice(b.Items, func(i, j int) bool { return b.Items[i].ID < b.Items[j].ID })
}

// ListForUser returns the user's builds, most recently touched first, with
// items, products and categories loaded.
func (r *BuildRepository) ListForUser(ctx context.Context, userID uint) ([]models.Build, error) {
	var builds []models.Build
	err := withItems(r.query(ctx).Model(&models.Build{})).
		Where("user_id = ?", userID).
		Order(recentFirst).
		Get(&builds)
	for i := range builds {
		sortItems(&builds[i])
	}
	return builds, wrap("builds: list for user", err)
}

// FindOwned loads a build with its items when userID owns it. A build owned
// by someone else is reported as ErrNotFound.
func (r *BuildRepository) FindOwned(ctx context.Context, id, userID uint) (models.Build, error) {
	var b models.Build
	err := withItems(r.query(ctx).Model(&models.Build{})).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b)
	sortItems(&b)
	return b, notFound("builds: find owned", err)
}

// FindOwnedShallow is FindOwned without the items.
func (r *BuildRepository) FindOwnedShallow(ctx context.Context, id, userID uint) (models.Build, error) {
	var b models.Build
	err := r.query(ctx).Model(&models.Build{}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b)
	return b, notFound("builds: find owned", err)
}

// Latest returns the user's most recently touched build.
func (r *BuildRepository) Latest(ctx context.Context, userID uint) (models.Build, error) {
	var b models.Build
	err := r.query(ctx).Model(&models.Build{}).
		Where("user_id = ?", userID).
		Order(recentFirst).
		Take(&b)
	return b, notFound("builds: latest", err)
}

// LockRow takes a row lock on the build where the dialect supports it.
func (r *BuildRepository) LockRow(ctx context.Context, id uint) error {
	var b models.Build
	err := r.query(ctx).Model(&models.Build{}).ForUpdate().Select("id").Where("id = ?", id).Take(&b)
	return notFound("builds: lock", err)
}

func (r *BuildRepository) Create(ctx context.Context, b *models.Build) error {
	return wrap("builds: create", r.query(ctx).Create(b))
}

func (r *BuildRepository) Rename(ctx context.Context, id uint, name string) error {
	_, err := r.query(ctx).Model(&models.Build{}).Where("id = ?", id).UpdateColumn("name", name)
	return wrap("builds: rename", err)
}

// Touch sets updated_at.
func (r *BuildRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	_, err := r.query(ctx).Model(&models.Build{}).Where("id = ?", id).UpdateColumn("updated_at", at)
	return wrap("builds: touch", err)
}

// Delete removes the build and its items. Items go first so the result is
// the same with or without FK cascades.
func (r *BuildRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.query(ctx).Where("build_id = ?", id).Delete(&models.BuildItem{}); err != nil {
		return wrap("builds: delete items", err)
	}
	n, err := r.query(ctx).Delete(&models.Build{}, id)
	if err != nil {
		return wrap("builds: delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Tiers returns the distinct product tiers currently in the build.
func (r *BuildRepository) Tiers(ctx context.Context, buildID uint) ([]int, error) {
	var tiers []int
	err := r.query(ctx).Model(&models.BuildItem{}).
		Joins("JOIN products ON products.id = build_items.product_id").
		Where("build_items.build_id = ?", buildID).
		Distinct("products.tier").
		Order("products.tier ASC").
		Pluck("products.tier", &tiers)
	return tiers, wrap("builds: tiers", err)
}

// FindItem returns the line for productID in the build.
func (r *BuildRepository) FindItem(ctx context.Context, buildID, productID uint) (models.BuildItem, error) {
	var it models.BuildItem
	err := r.query(ctx).Model(&models.BuildItem{}).
		Where("build_id = ? AND product_id = ?", buildID, productID).
		First(&it)
	return it, notFound("builds: find item", err)
}

// FindOwnedItem loads an item when its build belongs to userID.
func (r *BuildRepository) FindOwnedItem(ctx context.Context, itemID, userID uint) (models.BuildItem, error) {
	var it models.BuildItem
	err := r.query(ctx).Model(&models.BuildItem{}).
		Select("build_items.*").
		Joins("JOIN builds ON builds.id = build_items.build_id").
		Where("build_items.id = ? AND builds.user_id = ?", itemID, userID).
		Take(&it)
	return it, notFound("builds: find owned item", err)
}

func (r *BuildRepository) CreateItem(ctx context.Context, it *models.BuildItem) error {
	return wrap("builds: create item", r.query(ctx).Create(it))
}

func (r *BuildRepository) SetItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	_, err := r.query(ctx).Model(&models.BuildItem{}).Where("id = ?", itemID).UpdateColumn("quantity", quantity)
	return wrap("builds: set item quantity", err)
}

func (r *BuildRepository) DeleteItem(ctx context.Context, itemID uint) error {
	n, err := r.query(ctx).Delete(&models.BuildItem{}, itemID)
	if err != nil {
		return wrap("builds: delete item", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
