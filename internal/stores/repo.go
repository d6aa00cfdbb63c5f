package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// Repository encapsulates store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a store repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new store.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads one store by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	return store, err
}

// ListVisible returns stores the user owns plus stores shared with them
// through an accepted invitation.
func (r *Repository) ListVisible(ctx context.Context, userID uuid.UUID) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).
		Table("stores s").
		Select("s.*").
		Joins("LEFT JOIN store_invitations i ON i.store_id = s.id AND i.invitee_id = ? AND i.status = 'accepted'", userID).
		Where("s.owner_id = ? OR i.id IS NOT NULL", userID).
		Order("s.created_at ASC").
		Scan(&stores).Error
	return stores, err
}

// Save persists changes to an existing store.
func (r *Repository) Save(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes the store; dependent rows cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id).Error
}
