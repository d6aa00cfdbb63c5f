package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/types"
)

// ShoppingList is the live to-buy document for a store. One row per store;
// items are stored as an ordered JSONB array and replaced wholesale on write.
type ShoppingList struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:shopping_lists_store_id_key"`
	Items     types.ListItems `gorm:"column:items;type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
