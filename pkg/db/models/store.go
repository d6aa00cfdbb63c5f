package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a shopping location owned by one user and optionally shared
// with collaborators through invitations.
type Store struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Location  *string   `gorm:"column:location"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index:stores_owner_id_idx"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
