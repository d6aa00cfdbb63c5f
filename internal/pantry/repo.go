package pantry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// Repository encapsulates pantry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a pantry repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one pantry item.
func (r *Repository) Create(ctx context.Context, item *models.PantryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads one pantry item by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.PantryItem, error) {
	var item models.PantryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return item, err
}

// ListForStore returns pantry contents, soonest expiry first with undated
// items last.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("expires_at ASC NULLS LAST, name ASC").
		Find(&items).Error
	return items, err
}

// Save persists changes to an existing pantry item.
func (r *Repository) Save(ctx context.Context, item *models.PantryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes one pantry item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PantryItem{}, "id = ?", id).Error
}
