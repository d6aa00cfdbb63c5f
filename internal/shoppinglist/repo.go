package shoppinglist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/types"
)

// Repository encapsulates shopping list persistence. There is at most one
// list row per store; reads materialize an empty document when none exists.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shopping list repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByStoreID loads the store's list, returning an unsaved empty document
// when the store has never written one.
func (r *Repository) FindByStoreID(ctx context.Context, storeID uuid.UUID) (models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.db.WithContext(ctx).First(&list, "store_id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ShoppingList{StoreID: storeID, Items: types.ListItems{}}, nil
	}
	return list, err
}

// Save persists the document, inserting the row on first write.
func (r *Repository) Save(ctx context.Context, list *models.ShoppingList) error {
	if list.Items == nil {
		list.Items = types.ListItems{}
	}
	if list.ID == uuid.Nil {
		return r.db.WithContext(ctx).Create(list).Error
	}
	return r.db.WithContext(ctx).Save(list).Error
}
