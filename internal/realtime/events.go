package realtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/types"
)

const (
	EventTypePresence    = "presence"
	EventTypeItemChecked = "item_checked"
	EventTypeListUpdated = "list_updated"
)

// ActiveUser identifies one connected viewer of a store's list.
type ActiveUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PresenceEvent carries the refreshed roster for a store.
type PresenceEvent struct {
	Type        string       `json:"type"`
	ActiveUsers []ActiveUser `json:"activeUsers"`
	Timestamp   time.Time    `json:"timestamp"`
}

// NewPresenceEvent builds a presence event stamped with the current time.
func NewPresenceEvent(users []ActiveUser) PresenceEvent {
	return PresenceEvent{
		Type:        EventTypePresence,
		ActiveUsers: users,
		Timestamp:   time.Now().UTC(),
	}
}

// ItemCheckedEvent announces a single checked/unchecked flip.
type ItemCheckedEvent struct {
	Type       string    `json:"type"`
	FoodItemID uuid.UUID `json:"foodItemId"`
	Checked    bool      `json:"checked"`
	UpdatedBy  string    `json:"updatedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewItemCheckedEvent builds an item_checked event stamped with the current time.
func NewItemCheckedEvent(foodItemID uuid.UUID, checked bool, updatedBy string) ItemCheckedEvent {
	return ItemCheckedEvent{
		Type:       EventTypeItemChecked,
		FoodItemID: foodItemID,
		Checked:    checked,
		UpdatedBy:  updatedBy,
		Timestamp:  time.Now().UTC(),
	}
}

// ListUpdatedEvent carries the full remaining list after a bulk mutation.
type ListUpdatedEvent struct {
	Type      string          `json:"type"`
	Items     types.ListItems `json:"items"`
	UpdatedBy string          `json:"updatedBy"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewListUpdatedEvent builds a list_updated event stamped with the current time.
func NewListUpdatedEvent(items types.ListItems, updatedBy string) ListUpdatedEvent {
	if items == nil {
		items = types.ListItems{}
	}
	return ListUpdatedEvent{
		Type:      EventTypeListUpdated,
		Items:     items,
		UpdatedBy: updatedBy,
		Timestamp: time.Now().UTC(),
	}
}
