package repositories

import (
	"context"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{ base }

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) WithTx(tx *orm.Query) *UserRepository {
	return &UserRepository{base{q: tx}}
}

// FindByUsername looks up a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.query(ctx).Model(&models.User{}).Where("username = ?", username).First(&user)
	return user, notFound("users: find by username", err)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.query(ctx).Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, notFound("users: find by id", err)
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.query(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n)
	return n > 0, wrap("users: username exists", err)
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return wrap("users: create", r.query(ctx).Create(user))
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(ctx context.Context, id uint, role string) error {
	n, err := r.query(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("role", role)
	if err != nil {
		return wrap("users: set role", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
