package pantry

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

// PantryItemDTO is the public projection of a pantry item.
type PantryItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	StoreID   uuid.UUID  `json:"store_id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatePantryItemInput carries the fields accepted on pantry creation.
type CreatePantryItemInput struct {
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	Quantity  float64    `json:"quantity" validate:"gte=0"`
	Unit      string     `json:"unit" validate:"omitempty,max=32"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// UpdatePantryItemInput carries the optional fields accepted on pantry update.
type UpdatePantryItemInput struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity  *float64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit      *string    `json:"unit,omitempty" validate:"omitempty,max=32"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PantryRepository is the persistence surface the service depends on.
type PantryRepository interface {
	Create(ctx context.Context, item *models.PantryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (models.PantryItem, error)
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.PantryItem, error)
	Save(ctx context.Context, item *models.PantryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccessChecker authorizes store access.
type AccessChecker interface {
	EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error
}

// Service exposes what-we-have-at-home tracking.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input CreatePantryItemInput) (PantryItemDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]PantryItemDTO, error)
	Update(ctx context.Context, userID, storeID, itemID uuid.UUID, input UpdatePantryItemInput) (PantryItemDTO, error)
	Delete(ctx context.Context, userID, storeID, itemID uuid.UUID) error
}

type service struct {
	repo   PantryRepository
	access AccessChecker
}

// NewService builds a pantry service with the required dependencies.
func NewService(repo PantryRepository, access AccessChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pantry repo is required")
	}
	if access == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access checker is required")
	}
	return &service{repo: repo, access: access}, nil
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CreatePantryItemInput) (PantryItemDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return PantryItemDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return PantryItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity < 0 {
		return PantryItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item := models.PantryItem{
		StoreID:   storeID,
		Name:      name,
		Quantity:  input.Quantity,
		Unit:      strings.TrimSpace(input.Unit),
		ExpiresAt: input.ExpiresAt,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return PantryItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pantry item")
	}
	return toDTO(item), nil
}

func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]PantryItemDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pantry")
	}
	dtos := make([]PantryItemDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, storeID, itemID uuid.UUID, input UpdatePantryItemInput) (PantryItemDTO, error) {
	item, err := s.loadScoped(ctx, userID, storeID, itemID)
	if err != nil {
		return PantryItemDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return PantryItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = name
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return PantryItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		item.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.ExpiresAt != nil {
		item.ExpiresAt = input.ExpiresAt
	}

	if err := s.repo.Save(ctx, &item); err != nil {
		return PantryItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pantry item")
	}
	return toDTO(item), nil
}

func (s *service) Delete(ctx context.Context, userID, storeID, itemID uuid.UUID) error {
	if _, err := s.loadScoped(ctx, userID, storeID, itemID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pantry item")
	}
	return nil
}

func (s *service) loadScoped(ctx context.Context, userID, storeID, itemID uuid.UUID) (models.PantryItem, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return models.PantryItem{}, err
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PantryItem{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "pantry item not found")
		}
		return models.PantryItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pantry item")
	}
	if item.StoreID != storeID {
		return models.PantryItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "pantry item not found")
	}
	return item, nil
}

func toDTO(item models.PantryItem) PantryItemDTO {
	return PantryItemDTO{
		ID:        item.ID,
		StoreID:   item.StoreID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		ExpiresAt: item.ExpiresAt,
		UpdatedAt: item.UpdatedAt,
	}
}
