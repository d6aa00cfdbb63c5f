package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

// StoreDTO is the public projection of a store.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStoreInput carries the fields accepted on store creation.
type CreateStoreInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=240"`
}

// UpdateStoreInput carries the optional fields accepted on store update.
type UpdateStoreInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=240"`
}

func toDTO(store models.Store) StoreDTO {
	return StoreDTO{
		ID:        store.ID,
		Name:      store.Name,
		Location:  store.Location,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}
}
