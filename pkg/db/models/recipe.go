package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/types"
)

// Recipe is a user-authored dish with its ingredient list.
type Recipe struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index:recipes_owner_id_idx"`
	Title        string            `gorm:"column:title;not null"`
	Servings     int               `gorm:"column:servings;not null;default:1"`
	Instructions *string           `gorm:"column:instructions"`
	Ingredients  types.Ingredients `gorm:"column:ingredients;type:jsonb;not null;default:'[]'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
