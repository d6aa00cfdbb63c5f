package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/enums"
)

// MealPlanEntry schedules a recipe (or free-form note) for a meal slot on a date.
type MealPlanEntry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index:meal_plan_entries_owner_id_idx"`
	Date      time.Time      `gorm:"column:date;type:date;not null"`
	Slot      enums.MealSlot `gorm:"column:slot;type:meal_slot;not null"`
	RecipeID  *uuid.UUID     `gorm:"column:recipe_id;type:uuid"`
	Note      *string        `gorm:"column:note"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
