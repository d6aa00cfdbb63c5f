package invitations

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
)

// InvitationDTO is the public projection of a store invitation.
type InvitationDTO struct {
	ID           uuid.UUID              `json:"id"`
	StoreID      uuid.UUID              `json:"store_id"`
	InviteeID    uuid.UUID              `json:"invitee_id"`
	InviteeEmail string                 `json:"invitee_email"`
	Status       enums.InvitationStatus `json:"status"`
	InvitedByID  uuid.UUID              `json:"invited_by_id"`
	InvitedAt    time.Time              `json:"invited_at"`
}

// InviteInput carries the fields accepted when inviting a collaborator.
type InviteInput struct {
	Email string `json:"email" validate:"required,email"`
}

// RespondInput carries the invitee's answer.
type RespondInput struct {
	Accept bool `json:"accept"`
}

func toDTO(invitation models.StoreInvitation) InvitationDTO {
	return InvitationDTO{
		ID:           invitation.ID,
		StoreID:      invitation.StoreID,
		InviteeID:    invitation.InviteeID,
		InviteeEmail: invitation.InviteeEmail,
		Status:       invitation.Status,
		InvitedByID:  invitation.InvitedByID,
		InvitedAt:    invitation.InvitedAt,
	}
}
