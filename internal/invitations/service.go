package invitations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

// InvitationRepository is the persistence surface the service depends on.
type InvitationRepository interface {
	Upsert(ctx context.Context, invitation *models.StoreInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (models.StoreInvitation, error)
	FindByStoreAndInvitee(ctx context.Context, storeID, inviteeID uuid.UUID) (models.StoreInvitation, error)
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.StoreInvitation, error)
	ListPendingForInvitee(ctx context.Context, inviteeID uuid.UUID) ([]models.StoreInvitation, error)
	Save(ctx context.Context, invitation *models.StoreInvitation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreReader resolves stores for ownership checks.
type StoreReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.Store, error)
}

// UserReader resolves invitees by email address.
type UserReader interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Notifier records an in-app notification for a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, kind enums.NotificationType, message string) error
}

// Service exposes the invitation lifecycle: invite, answer, revoke.
type Service interface {
	Invite(ctx context.Context, inviterID, storeID uuid.UUID, input InviteInput) (InvitationDTO, error)
	Respond(ctx context.Context, userID, invitationID uuid.UUID, input RespondInput) (InvitationDTO, error)
	ListForStore(ctx context.Context, userID, storeID uuid.UUID) ([]InvitationDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]InvitationDTO, error)
	Revoke(ctx context.Context, userID, invitationID uuid.UUID) error
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Repo     InvitationRepository
	Stores   StoreReader
	Users    UserReader
	Notifier Notifier
}

type service struct {
	repo     InvitationRepository
	stores   StoreReader
	users    UserReader
	notifier Notifier
}

// NewService builds an invitation service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation repo is required")
	}
	if params.Stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store reader is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user reader is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	return &service{
		repo:     params.Repo,
		stores:   params.Stores,
		users:    params.Users,
		notifier: params.Notifier,
	}, nil
}

// Invite issues (or re-issues) an invitation for the given email address.
// Only the store owner may invite, and re-inviting a user who rejected
// resets their invitation to pending.
func (s *service) Invite(ctx context.Context, inviterID, storeID uuid.UUID, input InviteInput) (InvitationDTO, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != inviterID {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may invite collaborators")
	}

	invitee, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no user with that email")
		}
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve invitee")
	}
	if invitee.ID == store.OwnerID {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot invite the store owner")
	}

	invitation := models.StoreInvitation{
		StoreID:      storeID,
		InviteeID:    invitee.ID,
		InviteeEmail: invitee.Email,
		Status:       enums.InvitationStatusPending,
		InvitedByID:  inviterID,
		InvitedAt:    time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, &invitation); err != nil {
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save invitation")
	}

	// Notification failure must not fail the invite itself.
	_ = s.notifier.Notify(ctx, invitee.ID, &storeID, enums.NotificationTypeInviteReceived,
		fmt.Sprintf("You were invited to shop at %s", store.Name))

	return toDTO(invitation), nil
}

// Respond records the invitee's answer. Only the invitee may respond, and
// only while the invitation is pending.
func (s *service) Respond(ctx context.Context, userID, invitationID uuid.UUID, input RespondInput) (InvitationDTO, error) {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	if invitation.InviteeID != userID {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the invitee may respond")
	}
	if invitation.Status != enums.InvitationStatusPending {
		return InvitationDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "invitation already answered")
	}

	kind := enums.NotificationTypeInviteRejected
	invitation.Status = enums.InvitationStatusRejected
	if input.Accept {
		invitation.Status = enums.InvitationStatusAccepted
		kind = enums.NotificationTypeInviteAccepted
	}
	if err := s.repo.Save(ctx, &invitation); err != nil {
		return InvitationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save invitation")
	}

	storeID := invitation.StoreID
	_ = s.notifier.Notify(ctx, invitation.InvitedByID, &storeID, kind,
		fmt.Sprintf("%s %s your invitation", invitation.InviteeEmail, verbFor(invitation.Status)))

	return toDTO(invitation), nil
}

// ListForStore returns every invitation for a store; owner only.
func (s *service) ListForStore(ctx context.Context, userID, storeID uuid.UUID) ([]InvitationDTO, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may list invitations")
	}

	records, err := s.repo.ListForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}
	return toDTOs(records), nil
}

// ListMine returns the caller's pending invitations.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]InvitationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	records, err := s.repo.ListPendingForInvitee(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}
	return toDTOs(records), nil
}

// Revoke deletes an invitation; only the store owner may revoke.
func (s *service) Revoke(ctx context.Context, userID, invitationID uuid.UUID) error {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	store, err := s.stores.FindByID(ctx, invitation.StoreID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may revoke invitations")
	}
	if err := s.repo.Delete(ctx, invitationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invitation")
	}
	return nil
}

func toDTOs(records []models.StoreInvitation) []InvitationDTO {
	dtos := make([]InvitationDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos
}

func verbFor(status enums.InvitationStatus) string {
	if status == enums.InvitationStatusAccepted {
		return "accepted"
	}
	return "rejected"
}
