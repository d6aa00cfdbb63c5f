package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ListItem is one line on a store's live shopping list.
type ListItem struct {
	FoodItemID uuid.UUID `json:"foodItemId"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	Checked    bool      `json:"checked"`
}

// ListItems is the ordered item collection persisted as JSONB.
type ListItems []ListItem

// Value marshals the items into JSON for Postgres.
func (l ListItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the item slice.
func (l *ListItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("list items: unsupported scan type %T", value)
	}

	result := make(ListItems, 0)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// IndexOf returns the position of the item with the given food item id, or -1.
func (l ListItems) IndexOf(foodItemID uuid.UUID) int {
	for i, item := range l {
		if item.FoodItemID == foodItemID {
			return i
		}
	}
	return -1
}
