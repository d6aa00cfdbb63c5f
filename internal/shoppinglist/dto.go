package shoppinglist

import (
	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/types"
)

// ListDTO is the public projection of a store's shopping list.
type ListDTO struct {
	StoreID uuid.UUID       `json:"store_id"`
	Items   types.ListItems `json:"items"`
}

// AddItemInput carries one line to add to the list.
type AddItemInput struct {
	FoodItemID uuid.UUID `json:"foodItemId" validate:"required"`
	Name       string    `json:"name" validate:"required,min=1,max=200"`
	Quantity   float64   `json:"quantity" validate:"required,gt=0"`
	Unit       string    `json:"unit" validate:"omitempty,max=32"`
}

// UpdateItemInput carries the optional fields accepted on an item edit.
type UpdateItemInput struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit     *string  `json:"unit,omitempty" validate:"omitempty,max=32"`
}

// ToggleResult reports a single checked-state flip plus the full list so the
// actor can re-render without a second fetch.
type ToggleResult struct {
	FoodItemID uuid.UUID       `json:"foodItemId"`
	Checked    bool            `json:"checked"`
	Items      types.ListItems `json:"items"`
}

// CheckedItem is one bought line as the shopper reports it. The reported
// quantity drives the singular/plural display-name choice and the name is
// the resolution fallback when the catalog no longer has the item.
type CheckedItem struct {
	FoodItemID uuid.UUID `json:"foodItemId" validate:"required"`
	Name       string    `json:"name" validate:"required,min=1,max=200"`
	Quantity   float64   `json:"quantity" validate:"required,gt=0"`
	Unit       string    `json:"unit" validate:"omitempty,max=32"`
}

// FinishShopInput carries the checked items bought on this trip.
type FinishShopInput struct {
	CheckedItems []CheckedItem `json:"checkedItems" validate:"required,min=1,dive"`
}
