package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/pkg/event"
	"github.com/shashiranjanraj/pcbuilder/pkg/lock"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

type CreateBuildInput struct {
	Name string `json:"name" validate:"nullable,max=100"`
}

type RenameBuildInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	BuildID   uint `json:"build_id"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

// BuildService owns every mutation of a build. Each one runs under the
// build's keyed lock and inside a single transaction.
type BuildService struct {
	builds   *repositories.BuildRepository
	products *repositories.ProductRepository
	now      func() time.Time
}

func NewBuildService() *BuildService {
	return &BuildService{
		builds:   repositories.NewBuildRepository(),
		products: repositories.NewProductRepository(),
		now:      time.Now,
	}
}

// DefaultBuildName is "Build Jan 02" for the given day.
func DefaultBuildName(t time.Time) string {
	return "Build " + t.Format("Jan 02")
}

func buildLockKey(id uint) string { return fmt.Sprintf("build:%d", id) }

func userLockKey(id uint) string { return fmt.Sprintf("user:%d:builds", id) }

// ResolveActiveBuild picks the build an addition goes to: the explicit ID,
// then the session pointer, then the user's most recently touched build,
// and finally a new empty build. IDs the user does not own are skipped.
// The returned build has no items loaded.
func (s *BuildService) ResolveActiveBuild(ctx context.Context, userID, explicitID, sessionID uint) (models.Build, error) {
	for _, id := range []uint{explicitID, sessionID} {
		if id == 0 {
			continue
		}
		b, err := s.builds.FindOwnedShallow(ctx, id, userID)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return models.Build{}, err
		}
	}

	var resolved models.Build
	// Two first-time additions racing must not create two builds.
	err := lock.Do(ctx, userLockKey(userID), 0, func() error {
		b, err := s.builds.Latest(ctx, userID)
		if err == nil {
			resolved = b
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		resolved = models.Build{UserID: userID, Name: DefaultBuildName(s.now())}
		return s.builds.Create(ctx, &resolved)
	})
	if err != nil {
		return models.Build{}, err
	}
	return resolved, nil
}

// AddToBuild adds one unit of productID to the resolved build. The returned
// build is always the resolved one, even alongside a *TierConflictError, so
// the caller can remember it as active.
func (s *BuildService) AddToBuild(ctx context.Context, userID uint, in AddItemInput, sessionBuildID uint) (models.Build, error) {
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return models.Build{}, err
	}

	build, err := s.ResolveActiveBuild(ctx, userID, in.BuildID, sessionBuildID)
	if err != nil {
		return models.Build{}, err
	}

	var quantity int
	err = lock.Do(ctx, buildLockKey(build.ID), 0, func() error {
		return orm.Transaction(ctx, func(tx *orm.Query) error {
			q, err := s.addProduct(ctx, s.builds.WithTx(tx), build.ID, product)
			quantity = q
			return err
		})
	})

	if tc, ok := IsTierConflict(err); ok {
		event.Fire(ctx, EventTierConflict, TierConflict{
			BuildID: build.ID, UserID: userID, ProductID: product.ID, Conflict: tc,
		})
		return build, err
	}
	if err != nil {
		return build, err
	}

	event.Fire(ctx, EventItemAdded, ItemAdded{
		BuildID: build.ID, UserID: userID, ProductID: product.ID, Quantity: quantity,
	})
	return s.builds.FindOwned(ctx, build.ID, userID)
}

// addProduct applies the tier rule and merges repeated additions into one
// line. It returns the line's new quantity.
func (s *BuildService) addProduct(ctx context.Context, builds *repositories.BuildRepository, buildID uint, product models.Product) (int, error) {
	if err := builds.LockRow(ctx, buildID); err != nil {
		return 0, err
	}

	tiers, err := builds.Tiers(ctx, buildID)
	if err != nil {
		return 0, err
	}
	if err := CheckTierCompatibility(tiers, product.Tier); err != nil {
		return 0, err
	}

	quantity := 1
	item, err := builds.FindItem(ctx, buildID, product.ID)
	switch {
	case err == nil:
		quantity = item.Quantity + 1
		err = builds.SetItemQuantity(ctx, item.ID, quantity)
	case errors.Is(err, repositories.ErrNotFound):
		err = builds.CreateItem(ctx, &models.BuildItem{BuildID: buildID, ProductID: product.ID, Quantity: quantity})
	}
	if err != nil {
		return 0, err
	}

	return quantity, builds.Touch(ctx, buildID, s.now())
}

// UpdateQuantity sets an item's quantity, raising anything below 1 to 1.
func (s *BuildService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (models.Build, error) {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutateItem(ctx, userID, itemID, func(builds *repositories.BuildRepository, item models.BuildItem) error {
		return builds.SetItemQuantity(ctx, item.ID, quantity)
	})
}

// RemoveFromBuild deletes an item. Items in other users' builds are
// reported as ErrNotFound and left alone.
func (s *BuildService) RemoveFromBuild(ctx context.Context, userID, itemID uint) (models.Build, error) {
	return s.mutateItem(ctx, userID, itemID, func(builds *repositories.BuildRepository, item models.BuildItem) error {
		return builds.DeleteItem(ctx, item.ID)
	})
}

func (s *BuildService) mutateItem(ctx context.Context, userID, itemID uint, fn func(*repositories.BuildRepository, models.BuildItem) error) (models.Build, error) {
	item, err := s.builds.FindOwnedItem(ctx, itemID, userID)
	if err != nil {
		return models.Build{}, err
	}

	err = lock.Do(ctx, buildLockKey(item.BuildID), 0, func() error {
		return orm.Transaction(ctx, func(tx *orm.Query) error {
			builds := s.builds.WithTx(tx)
			// Re-read under the lock; a concurrent delete may have won.
			current, err := builds.FindOwnedItem(ctx, itemID, userID)
			if err != nil {
				return err
			}
			if err := fn(builds, current); err != nil {
				return err
			}
			return builds.Touch(ctx, current.BuildID, s.now())
		})
	})
	if err != nil {
		return models.Build{}, err
	}
	return s.builds.FindOwned(ctx, item.BuildID, userID)
}

// ── Build management ────────────────────────────────────────────────────────

// ListBuilds returns the user's builds, most recently touched first.
func (s *BuildService) ListBuilds(ctx context.Context, userID uint) ([]models.Build, error) {
	return s.builds.ListForUser(ctx, userID)
}

func (s *BuildService) GetBuild(ctx context.Context, userID, id uint) (models.Build, error) {
	return s.builds.FindOwned(ctx, id, userID)
}

// CreateBuild creates an empty build; a blank name gets the default.
func (s *BuildService) CreateBuild(ctx context.Context, userID uint, in CreateBuildInput) (models.Build, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = DefaultBuildName(s.now())
	}
	b := models.Build{UserID: userID, Name: name}
	if err := s.builds.Create(ctx, &b); err != nil {
		return models.Build{}, err
	}
	return b, nil
}

func (s *BuildService) RenameBuild(ctx context.Context, userID, id uint, in RenameBuildInput) (models.Build, error) {
	if _, err := s.builds.FindOwnedShallow(ctx, id, userID); err != nil {
		return models.Build{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Build{}, ValidationError{"name": "The name field is required."}
	}

	err := lock.Do(ctx, buildLockKey(id), 0, func() error {
		return s.builds.Rename(ctx, id, name)
	})
	if err != nil {
		return models.Build{}, err
	}
	return s.builds.FindOwned(ctx, id, userID)
}

// DeleteBuild removes the build and all of its items.
func (s *BuildService) DeleteBuild(ctx context.Context, userID, id uint) error {
	if _, err := s.builds.FindOwnedShallow(ctx, id, userID); err != nil {
		return err
	}

	err := lock.Do(ctx, buildLockKey(id), 0, func() error {
		return orm.Transaction(ctx, func(tx *orm.Query) error {
			return s.builds.WithTx(tx).Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Debug("build deleted", "build_id", id)
	event.Fire(ctx, EventBuildDeleted, BuildDeleted{BuildID: id, UserID: userID})
	return nil
}

// ActivateBuild checks ownership; the caller stores the pointer.
func (s *BuildService) ActivateBuild(ctx context.Context, userID, id uint) (models.Build, error) {
	return s.builds.FindOwnedShallow(ctx, id, userID)
}
