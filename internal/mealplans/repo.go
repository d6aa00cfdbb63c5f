package mealplans

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// Repository encapsulates meal plan persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a meal plan repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one plan entry.
func (r *Repository) Create(ctx context.Context, entry *models.MealPlanEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID loads one plan entry by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.MealPlanEntry, error) {
	var entry models.MealPlanEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return entry, err
}

// ListRange returns the owner's entries inside [from, to] ordered by date
// then slot.
func (r *Repository) ListRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.MealPlanEntry, error) {
	var entries []models.MealPlanEntry
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date BETWEEN ? AND ?", ownerID, from, to).
		Order("date ASC, slot ASC").
		Find(&entries).Error
	return entries, err
}

// Save persists changes to an existing plan entry.
func (r *Repository) Save(ctx context.Context, entry *models.MealPlanEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes one plan entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MealPlanEntry{}, "id = ?", id).Error
}
