package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodItem is a canonical catalog entry used to resolve display names on
// shopping lists and purchase history.
type FoodItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID `gorm:"column:store_id;type:uuid;not null;index:food_items_store_id_idx"`
	NameSingular string    `gorm:"column:name_singular;not null"`
	NamePlural   string    `gorm:"column:name_plural;not null"`
	DefaultUnit  string    `gorm:"column:default_unit;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
