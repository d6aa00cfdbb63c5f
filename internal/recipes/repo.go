package recipes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// Repository encapsulates recipe persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a recipe repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one recipe.
func (r *Repository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// FindByID loads one recipe by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	return recipe, err
}

// ListForOwner returns the user's recipes by title.
func (r *Repository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("title ASC").
		Find(&recipes).Error
	return recipes, err
}

// Save persists changes to an existing recipe.
func (r *Repository) Save(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// Delete removes one recipe; plan entries referencing it keep their note.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}
