package recipes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/internal/shoppinglist"
	"github.com/mealvine/mealvine-backend/pkg/db/models"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/types"
)

// RecipeDTO is the public projection of a recipe.
type RecipeDTO struct {
	ID           uuid.UUID         `json:"id"`
	OwnerID      uuid.UUID         `json:"owner_id"`
	Title        string            `json:"title"`
	Servings     int               `json:"servings"`
	Instructions *string           `json:"instructions,omitempty"`
	Ingredients  types.Ingredients `json:"ingredients"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateRecipeInput carries the fields accepted on recipe creation.
type CreateRecipeInput struct {
	Title        string            `json:"title" validate:"required,min=1,max=200"`
	Servings     int               `json:"servings" validate:"omitempty,gte=1,lte=100"`
	Instructions *string           `json:"instructions,omitempty"`
	Ingredients  types.Ingredients `json:"ingredients" validate:"omitempty,dive"`
}

// UpdateRecipeInput carries the optional fields accepted on recipe update.
type UpdateRecipeInput struct {
	Title        *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Servings     *int               `json:"servings,omitempty" validate:"omitempty,gte=1,lte=100"`
	Instructions *string            `json:"instructions,omitempty"`
	Ingredients  *types.Ingredients `json:"ingredients,omitempty"`
}

// RecipeRepository is the persistence surface the service depends on.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error)
	Save(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListAppender adds lines to a store's shopping list.
type ListAppender interface {
	AddItem(ctx context.Context, actor shoppinglist.Actor, storeID uuid.UUID, input shoppinglist.AddItemInput) (shoppinglist.ListDTO, error)
}

// Service exposes recipe management plus the add-to-list shortcut.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateRecipeInput) (RecipeDTO, error)
	GetByID(ctx context.Context, userID, recipeID uuid.UUID) (RecipeDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]RecipeDTO, error)
	Update(ctx context.Context, userID, recipeID uuid.UUID, input UpdateRecipeInput) (RecipeDTO, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	// AddToShoppingList pushes every ingredient with a catalog reference onto
	// the store's list and reports how many lines were added.
	AddToShoppingList(ctx context.Context, actor shoppinglist.Actor, recipeID, storeID uuid.UUID) (int, error)
}

type service struct {
	repo RecipeRepository
	list ListAppender
}

// NewService builds a recipe service with the required dependencies.
func NewService(repo RecipeRepository, list ListAppender) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe repo is required")
	}
	if list == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list appender is required")
	}
	return &service{repo: repo, list: list}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateRecipeInput) (RecipeDTO, error) {
	if ownerID == uuid.Nil {
		return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	servings := input.Servings
	if servings < 1 {
		servings = 1
	}

	recipe := models.Recipe{
		OwnerID:      ownerID,
		Title:        title,
		Servings:     servings,
		Instructions: input.Instructions,
		Ingredients:  input.Ingredients,
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = types.Ingredients{}
	}
	if err := s.repo.Create(ctx, &recipe); err != nil {
		return RecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create recipe")
	}
	return toDTO(recipe), nil
}

func (s *service) GetByID(ctx context.Context, userID, recipeID uuid.UUID) (RecipeDTO, error) {
	recipe, err := s.loadOwned(ctx, userID, recipeID)
	if err != nil {
		return RecipeDTO{}, err
	}
	return toDTO(recipe), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]RecipeDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	records, err := s.repo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipes")
	}
	dtos := make([]RecipeDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, recipeID uuid.UUID, input UpdateRecipeInput) (RecipeDTO, error) {
	recipe, err := s.loadOwned(ctx, userID, recipeID)
	if err != nil {
		return RecipeDTO{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		recipe.Title = title
	}
	if input.Servings != nil {
		if *input.Servings < 1 {
			return RecipeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "servings must be at least one")
		}
		recipe.Servings = *input.Servings
	}
	if input.Instructions != nil {
		recipe.Instructions = input.Instructions
	}
	if input.Ingredients != nil {
		recipe.Ingredients = *input.Ingredients
	}

	if err := s.repo.Save(ctx, &recipe); err != nil {
		return RecipeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update recipe")
	}
	return toDTO(recipe), nil
}

func (s *service) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, recipeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, recipeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete recipe")
	}
	return nil
}

// AddToShoppingList walks the recipe's ingredients and appends each one that
// carries a food item reference. Free-text ingredients without a catalog id
// are skipped; membership on the target store is enforced by the list service.
func (s *service) AddToShoppingList(ctx context.Context, actor shoppinglist.Actor, recipeID, storeID uuid.UUID) (int, error) {
	recipe, err := s.loadOwned(ctx, actor.ID, recipeID)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, ingredient := range recipe.Ingredients {
		if ingredient.FoodItemID == uuid.Nil || ingredient.Quantity <= 0 {
			continue
		}
		_, err := s.list.AddItem(ctx, actor, storeID, shoppinglist.AddItemInput{
			FoodItemID: ingredient.FoodItemID,
			Name:       ingredient.Name,
			Quantity:   ingredient.Quantity,
			Unit:       ingredient.Unit,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *service) loadOwned(ctx context.Context, userID, recipeID uuid.UUID) (models.Recipe, error) {
	if userID == uuid.Nil {
		return models.Recipe{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	recipe, err := s.repo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Recipe{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "recipe not found")
		}
		return models.Recipe{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe")
	}
	if recipe.OwnerID != userID {
		return models.Recipe{}, pkgerrors.New(pkgerrors.CodeForbidden, "not your recipe")
	}
	return recipe, nil
}

func toDTO(recipe models.Recipe) RecipeDTO {
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = types.Ingredients{}
	}
	return RecipeDTO{
		ID:           recipe.ID,
		OwnerID:      recipe.OwnerID,
		Title:        recipe.Title,
		Servings:     recipe.Servings,
		Instructions: recipe.Instructions,
		Ingredients:  ingredients,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}
