package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseHistoryRecord is a "latest purchase" snapshot per (store, food item).
// It is upserted on finish-shop, not appended, so at most one row exists per pair.
type PurchaseHistoryRecord struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID `gorm:"column:store_id;type:uuid;not null;index:purchase_history_store_id_idx;uniqueIndex:purchase_history_store_item_key"`
	FoodItemID      uuid.UUID `gorm:"column:food_item_id;type:uuid;not null;uniqueIndex:purchase_history_store_item_key"`
	Name            string    `gorm:"column:name;not null"`
	Quantity        float64   `gorm:"column:quantity;not null"`
	Unit            string    `gorm:"column:unit;not null;default:''"`
	LastPurchasedAt time.Time `gorm:"column:last_purchased_at;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
