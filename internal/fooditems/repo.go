package fooditems

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// Repository encapsulates food item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a food item repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one catalog entry.
func (r *Repository) Create(ctx context.Context, item *models.FoodItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads one catalog entry by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.FoodItem, error) {
	var item models.FoodItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return item, err
}

// FindByIDs batch-loads catalog entries for a store. Missing ids are simply
// absent from the result, never an error.
func (r *Repository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.FoodItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.FoodItem
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&items).Error
	return items, err
}

// ListForStore returns the store's catalog ordered by singular name.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name_singular ASC").
		Find(&items).Error
	return items, err
}

// Save persists changes to an existing catalog entry.
func (r *Repository) Save(ctx context.Context, item *models.FoodItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes one catalog entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FoodItem{}, "id = ?", id).Error
}
