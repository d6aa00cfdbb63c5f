package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/enums"
)

// StoreInvitation links an invited user to a store. At most one row exists
// per (store, invitee); re-inviting replaces the previous invitation.
type StoreInvitation struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID              `gorm:"column:store_id;type:uuid;not null;index:store_invitations_store_id_idx;uniqueIndex:store_invitations_store_invitee_key"`
	InviteeID    uuid.UUID              `gorm:"column:invitee_id;type:uuid;not null;index:store_invitations_invitee_id_idx;uniqueIndex:store_invitations_store_invitee_key"`
	InviteeEmail string                 `gorm:"column:invitee_email;not null"`
	Status       enums.InvitationStatus `gorm:"column:status;type:invitation_status;not null;default:'pending'"`
	InvitedByID  uuid.UUID              `gorm:"column:invited_by_id;type:uuid;not null"`
	InvitedAt    time.Time              `gorm:"column:invited_at;not null;default:now()"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
