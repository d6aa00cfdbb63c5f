package fooditems

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

// FoodItemDTO is the public projection of a catalog entry.
type FoodItemDTO struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	NameSingular string    `json:"name_singular"`
	NamePlural   string    `json:"name_plural"`
	DefaultUnit  string    `json:"default_unit"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateFoodItemInput carries the fields accepted on catalog creation.
type CreateFoodItemInput struct {
	NameSingular string `json:"name_singular" validate:"required,min=1,max=120"`
	NamePlural   string `json:"name_plural" validate:"omitempty,max=120"`
	DefaultUnit  string `json:"default_unit" validate:"omitempty,max=32"`
}

// UpdateFoodItemInput carries the optional fields accepted on catalog update.
type UpdateFoodItemInput struct {
	NameSingular *string `json:"name_singular,omitempty" validate:"omitempty,min=1,max=120"`
	NamePlural   *string `json:"name_plural,omitempty" validate:"omitempty,min=1,max=120"`
	DefaultUnit  *string `json:"default_unit,omitempty" validate:"omitempty,max=32"`
}

// FoodItemRepository is the persistence surface the service depends on.
type FoodItemRepository interface {
	Create(ctx context.Context, item *models.FoodItem) error
	FindByID(ctx context.Context, id uuid.UUID) (models.FoodItem, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.FoodItem, error)
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.FoodItem, error)
	Save(ctx context.Context, item *models.FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccessChecker authorizes store access.
type AccessChecker interface {
	EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error
}

// Resolver turns food item ids into display names for a store. Implemented
// by the catalog service and consumed by the shopping list on finish-shop.
type Resolver interface {
	ResolveNames(ctx context.Context, storeID uuid.UUID, requests []NameRequest) (map[uuid.UUID]string, error)
}

// NameRequest asks for the display name of one food item at a quantity.
// Fallback is used verbatim when the catalog has no entry for the id.
type NameRequest struct {
	FoodItemID uuid.UUID
	Quantity   float64
	Fallback   string
}

// Service exposes catalog management plus name resolution.
type Service interface {
	Resolver
	Create(ctx context.Context, userID, storeID uuid.UUID, input CreateFoodItemInput) (FoodItemDTO, error)
	List(ctx context.Context, userID, storeID uuid.UUID) ([]FoodItemDTO, error)
	Update(ctx context.Context, userID, storeID, itemID uuid.UUID, input UpdateFoodItemInput) (FoodItemDTO, error)
	Delete(ctx context.Context, userID, storeID, itemID uuid.UUID) error
}

type service struct {
	repo   FoodItemRepository
	access AccessChecker
}

// NewService builds a food item service with the required dependencies.
func NewService(repo FoodItemRepository, access AccessChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food item repo is required")
	}
	if access == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access checker is required")
	}
	return &service{repo: repo, access: access}, nil
}

// Create adds a catalog entry. The plural name defaults to the singular
// when omitted, so "rice" stays "rice" at any quantity.
func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CreateFoodItemInput) (FoodItemDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return FoodItemDTO{}, err
	}
	singular := strings.TrimSpace(input.NameSingular)
	if singular == "" {
		return FoodItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "singular name is required")
	}
	plural := strings.TrimSpace(input.NamePlural)
	if plural == "" {
		plural = singular
	}

	item := models.FoodItem{
		StoreID:      storeID,
		NameSingular: singular,
		NamePlural:   plural,
		DefaultUnit:  strings.TrimSpace(input.DefaultUnit),
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return FoodItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food item")
	}
	return toDTO(item), nil
}

// List returns the store's catalog.
func (s *service) List(ctx context.Context, userID, storeID uuid.UUID) ([]FoodItemDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list food items")
	}
	dtos := make([]FoodItemDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// Update applies partial changes to a catalog entry.
func (s *service) Update(ctx context.Context, userID, storeID, itemID uuid.UUID, input UpdateFoodItemInput) (FoodItemDTO, error) {
	item, err := s.loadScoped(ctx, userID, storeID, itemID)
	if err != nil {
		return FoodItemDTO{}, err
	}

	if input.NameSingular != nil {
		singular := strings.TrimSpace(*input.NameSingular)
		if singular == "" {
			return FoodItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "singular name cannot be empty")
		}
		item.NameSingular = singular
	}
	if input.NamePlural != nil {
		item.NamePlural = strings.TrimSpace(*input.NamePlural)
	}
	if input.DefaultUnit != nil {
		item.DefaultUnit = strings.TrimSpace(*input.DefaultUnit)
	}

	if err := s.repo.Save(ctx, &item); err != nil {
		return FoodItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food item")
	}
	return toDTO(item), nil
}

// Delete removes a catalog entry.
func (s *service) Delete(ctx context.Context, userID, storeID, itemID uuid.UUID) error {
	if _, err := s.loadScoped(ctx, userID, storeID, itemID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete food item")
	}
	return nil
}

// ResolveNames maps each request to a quantity-aware display name: the
// singular name at quantity one, the plural otherwise. Requests whose id is
// missing from the catalog resolve to their fallback so a stale list entry
// never blocks a purchase.
func (s *service) ResolveNames(ctx context.Context, storeID uuid.UUID, requests []NameRequest) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(requests))
	for _, request := range requests {
		ids = append(ids, request.FoodItemID)
	}
	records, err := s.repo.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food items")
	}

	byID := make(map[uuid.UUID]models.FoodItem, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	names := make(map[uuid.UUID]string, len(requests))
	for _, request := range requests {
		names[request.FoodItemID] = displayName(byID, request)
	}
	return names, nil
}

func displayName(byID map[uuid.UUID]models.FoodItem, request NameRequest) string {
	item, ok := byID[request.FoodItemID]
	if !ok {
		return request.Fallback
	}
	if request.Quantity == 1 {
		return item.NameSingular
	}
	if item.NamePlural != "" {
		return item.NamePlural
	}
	return item.NameSingular
}

func (s *service) loadScoped(ctx context.Context, userID, storeID, itemID uuid.UUID) (models.FoodItem, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return models.FoodItem{}, err
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "food item not found")
		}
		return models.FoodItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	if item.StoreID != storeID {
		return models.FoodItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "food item not found")
	}
	return item, nil
}

func toDTO(item models.FoodItem) FoodItemDTO {
	return FoodItemDTO{
		ID:           item.ID,
		StoreID:      item.StoreID,
		NameSingular: item.NameSingular,
		NamePlural:   item.NamePlural,
		DefaultUnit:  item.DefaultUnit,
		CreatedAt:    item.CreatedAt,
	}
}
