package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

// UserDTO is the public projection of a user profile.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository is the persistence surface the service depends on.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// Service exposes profile sync and lookup. Identity itself comes from the
// external provider; this service only mirrors it locally.
type Service interface {
	SyncProfile(ctx context.Context, id uuid.UUID, email, name string) (UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (UserDTO, error)
	GetByEmail(ctx context.Context, email string) (UserDTO, error)
}

type service struct {
	repo UserRepository
}

// NewService builds a user service with the required dependencies.
func NewService(repo UserRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{repo: repo}, nil
}

// SyncProfile mirrors the token identity into the users table.
func (s *service) SyncProfile(ctx context.Context, id uuid.UUID, email, name string) (UserDTO, error) {
	if id == uuid.Nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if name == "" {
		name = email
	}

	user := models.User{ID: id, Email: email, Name: name}
	if err := s.repo.Upsert(ctx, &user); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync profile")
	}
	return toDTO(user), nil
}

// GetByID loads a profile by id.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toDTO(user), nil
}

// GetByEmail resolves a profile by email, used when inviting by address.
func (s *service) GetByEmail(ctx context.Context, email string) (UserDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no user with that email")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toDTO(user), nil
}

func toDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
