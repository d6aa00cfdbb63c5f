package stores

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

// StoreRepository is the persistence surface the service depends on.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Store, error)
	ListVisible(ctx context.Context, userID uuid.UUID) ([]models.Store, error)
	Save(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvitationReader resolves a user's invitation for a store, if any.
type InvitationReader interface {
	FindByStoreAndInvitee(ctx context.Context, storeID, inviteeID uuid.UUID) (models.StoreInvitation, error)
}

// AccessChecker is the authorization surface other domains consume.
type AccessChecker interface {
	// EnsureMember returns nil when the user owns the store or holds an
	// accepted invitation; CodeNotFound when the store does not exist;
	// CodeForbidden otherwise.
	EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error
}

// Service exposes business rules for store management.
type Service interface {
	AccessChecker
	Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (StoreDTO, error)
	GetByID(ctx context.Context, userID, storeID uuid.UUID) (StoreDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error)
	Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (StoreDTO, error)
	Delete(ctx context.Context, userID, storeID uuid.UUID) error
}

type service struct {
	repo        StoreRepository
	invitations InvitationReader
}

// NewService builds a store service with the required dependencies.
func NewService(repo StoreRepository, invitations InvitationReader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store repo is required")
	}
	if invitations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation reader is required")
	}
	return &service{repo: repo, invitations: invitations}, nil
}

// Create persists a new store owned by the caller.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (StoreDTO, error) {
	if ownerID == uuid.Nil {
		return StoreDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return StoreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	store := models.Store{
		Name:     name,
		Location: input.Location,
		OwnerID:  ownerID,
	}
	if err := s.repo.Create(ctx, &store); err != nil {
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return toDTO(store), nil
}

// GetByID loads a store visible to the caller.
func (s *service) GetByID(ctx context.Context, userID, storeID uuid.UUID) (StoreDTO, error) {
	if err := s.EnsureMember(ctx, storeID, userID); err != nil {
		return StoreDTO{}, err
	}
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return toDTO(store), nil
}

// List returns every store the user owns or collaborates on.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	records, err := s.repo.ListVisible(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	dtos := make([]StoreDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// Update applies partial changes; only the owner may rename or move a store.
func (s *service) Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (StoreDTO, error) {
	store, err := s.loadOwned(ctx, storeID, userID)
	if err != nil {
		return StoreDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return StoreDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = name
	}
	if input.Location != nil {
		store.Location = input.Location
	}

	if err := s.repo.Save(ctx, &store); err != nil {
		return StoreDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return toDTO(store), nil
}

// Delete removes an owned store and everything hanging off it.
func (s *service) Delete(ctx context.Context, userID, storeID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, storeID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

// EnsureMember authorizes list/history access: owner or accepted collaborator.
func (s *service) EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID == userID {
		return nil
	}

	invitation, err := s.invitations.FindByStoreAndInvitee(ctx, storeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this store")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	if invitation.Status != enums.InvitationStatusAccepted {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invitation not accepted")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, storeID, userID uuid.UUID) (models.Store, error) {
	if userID == uuid.Nil {
		return models.Store{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Store{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store not found")
		}
		return models.Store{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return models.Store{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may modify the store")
	}
	return store, nil
}
