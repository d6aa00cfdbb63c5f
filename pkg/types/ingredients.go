package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Ingredient references a food item needed by a recipe.
type Ingredient struct {
	FoodItemID uuid.UUID `json:"foodItemId"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
}

// Ingredients is a recipe's ingredient collection persisted as JSONB.
type Ingredients []Ingredient

// Value marshals the ingredients into JSON for Postgres.
func (i Ingredients) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the ingredient slice.
func (i *Ingredients) Scan(value interface{}) error {
	if value == nil {
		*i = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("ingredients: unsupported scan type %T", value)
	}

	result := make(Ingredients, 0)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*i = result
	return nil
}
