package models

import (
	"time"

	"github.com/google/uuid"
)

// PantryItem tracks what a household currently has on hand.
type PantryItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index:pantry_items_store_id_idx"`
	Name      string     `gorm:"column:name;not null"`
	Quantity  float64    `gorm:"column:quantity;not null;default:0"`
	Unit      string     `gorm:"column:unit;not null;default:''"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
