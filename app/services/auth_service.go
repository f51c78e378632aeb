package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shashiranjanraj/pcbuilder/app/repositories"
	"github.com/shashiranjanraj/pcbuilder/pkg/auth"
)

type RegisterInput struct {
	Username             string `json:"username" validate:"required,between=5,50,alpha_dash"`
	Password             string `json:"password" validate:"required,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a User-role account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: username, PasswordHash: hash, Role: models.RoleUser}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login checks the credentials and issues an API token. Unknown users and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.User, string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Promote grants the Admin role. The CLI uses it to bootstrap the first admin.
func (s *AuthService) Promote(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if err := s.users.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return models.User{}, err
	}
	user.Role = models.RoleAdmin
	return user, nil
}

// RedirectFor is where a freshly signed-in user lands.
func RedirectFor(user models.User) string {
	if user.IsAdmin() {
		return "/admin"
	}
	return "/"
}
