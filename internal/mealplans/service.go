package mealplans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

// maxRangeDays caps how wide a calendar query can be.
const maxRangeDays = 62

// EntryDTO is the public projection of a meal plan entry.
type EntryDTO struct {
	ID       uuid.UUID      `json:"id"`
	Date     string         `json:"date"`
	Slot     enums.MealSlot `json:"slot"`
	RecipeID *uuid.UUID     `json:"recipe_id,omitempty"`
	Note     *string        `json:"note,omitempty"`
}

// CreateEntryInput carries the fields accepted on plan creation.
type CreateEntryInput struct {
	Date     string     `json:"date" validate:"required,datetime=2006-01-02"`
	Slot     string     `json:"slot" validate:"required"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
	Note     *string    `json:"note,omitempty" validate:"omitempty,max=500"`
}

// UpdateEntryInput carries the optional fields accepted on plan update.
type UpdateEntryInput struct {
	Date     *string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Slot     *string    `json:"slot,omitempty"`
	RecipeID *uuid.UUID `json:"recipe_id,omitempty"`
	Note     *string    `json:"note,omitempty" validate:"omitempty,max=500"`
}

// PlanRepository is the persistence surface the service depends on.
type PlanRepository interface {
	Create(ctx context.Context, entry *models.MealPlanEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (models.MealPlanEntry, error)
	ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.MealPlanEntry, error)
	Save(ctx context.Context, entry *models.MealPlanEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the meal calendar.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateEntryInput) (EntryDTO, error)
	ListRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]EntryDTO, error)
	Update(ctx context.Context, ownerID, entryID uuid.UUID, input UpdateEntryInput) (EntryDTO, error)
	Delete(ctx context.Context, ownerID, entryID uuid.UUID) error
}

type service struct {
	repo PlanRepository
}

// NewService builds a meal plan service with the required dependencies.
func NewService(repo PlanRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan repo is required")
	}
	return &service{repo: repo}, nil
}

// Create schedules a recipe or free-form note. An entry needs at least one
// of the two, otherwise there is nothing to cook.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateEntryInput) (EntryDTO, error) {
	if ownerID == uuid.Nil {
		return EntryDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}
	slot, err := enums.ParseMealSlot(input.Slot)
	if err != nil {
		return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot")
	}
	if input.RecipeID == nil && (input.Note == nil || *input.Note == "") {
		return EntryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "an entry needs a recipe or a note")
	}

	entry := models.MealPlanEntry{
		OwnerID:  ownerID,
		Date:     date,
		Slot:     slot,
		RecipeID: input.RecipeID,
		Note:     input.Note,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan entry")
	}
	return toDTO(entry), nil
}

// ListRange returns the calendar between two inclusive dates.
func (s *service) ListRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]EntryDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must not precede from")
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range too wide")
	}

	records, err := s.repo.ListRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plan entries")
	}
	dtos := make([]EntryDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// Update applies partial changes to a plan entry.
func (s *service) Update(ctx context.Context, ownerID, entryID uuid.UUID, input UpdateEntryInput) (EntryDTO, error) {
	entry, err := s.loadOwned(ctx, ownerID, entryID)
	if err != nil {
		return EntryDTO{}, err
	}

	if input.Date != nil {
		date, err := time.Parse("2006-01-02", *input.Date)
		if err != nil {
			return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
		}
		entry.Date = date
	}
	if input.Slot != nil {
		slot, err := enums.ParseMealSlot(*input.Slot)
		if err != nil {
			return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot")
		}
		entry.Slot = slot
	}
	if input.RecipeID != nil {
		entry.RecipeID = input.RecipeID
	}
	if input.Note != nil {
		entry.Note = input.Note
	}

	if err := s.repo.Save(ctx, &entry); err != nil {
		return EntryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plan entry")
	}
	return toDTO(entry), nil
}

// Delete removes a plan entry.
func (s *service) Delete(ctx context.Context, ownerID, entryID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, ownerID, entryID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plan entry")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, ownerID, entryID uuid.UUID) (models.MealPlanEntry, error) {
	if ownerID == uuid.Nil {
		return models.MealPlanEntry{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.MealPlanEntry{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "plan entry not found")
		}
		return models.MealPlanEntry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan entry")
	}
	if entry.OwnerID != ownerID {
		return models.MealPlanEntry{}, pkgerrors.New(pkgerrors.CodeForbidden, "not your plan entry")
	}
	return entry, nil
}

func toDTO(entry models.MealPlanEntry) EntryDTO {
	return EntryDTO{
		ID:       entry.ID,
		Date:     entry.Date.Format("2006-01-02"),
		Slot:     entry.Slot,
		RecipeID: entry.RecipeID,
		Note:     entry.Note,
	}
}
