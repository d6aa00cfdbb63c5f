package stores

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

type stubStoreRepo struct {
	stores map[uuid.UUID]models.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: map[uuid.UUID]models.Store{}}
}

func (s *stubStoreRepo) Create(_ context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	s.stores[store.ID] = *store
	return nil
}

func (s *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (models.Store, error) {
	store, ok := s.stores[id]
	if !ok {
		return models.Store{}, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (s *stubStoreRepo) ListVisible(_ context.Context, userID uuid.UUID) ([]models.Store, error) {
	var out []models.Store
	for _, store := range s.stores {
		if store.OwnerID == userID {
			out = append(out, store)
		}
	}
	return out, nil
}

func (s *stubStoreRepo) Save(_ context.Context, store *models.Store) error {
	s.stores[store.ID] = *store
	return nil
}

func (s *stubStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.stores, id)
	return nil
}

type stubInvitationReader struct {
	invitations map[uuid.UUID]map[uuid.UUID]models.StoreInvitation
}

func (s *stubInvitationReader) FindByStoreAndInvitee(_ context.Context, storeID, inviteeID uuid.UUID) (models.StoreInvitation, error) {
	if byInvitee, ok := s.invitations[storeID]; ok {
		if invitation, ok := byInvitee[inviteeID]; ok {
			return invitation, nil
		}
	}
	return models.StoreInvitation{}, gorm.ErrRecordNotFound
}

func (s *stubInvitationReader) put(storeID, inviteeID uuid.UUID, status enums.InvitationStatus) {
	if s.invitations == nil {
		s.invitations = map[uuid.UUID]map[uuid.UUID]models.StoreInvitation{}
	}
	if s.invitations[storeID] == nil {
		s.invitations[storeID] = map[uuid.UUID]models.StoreInvitation{}
	}
	s.invitations[storeID][inviteeID] = models.StoreInvitation{
		StoreID:   storeID,
		InviteeID: inviteeID,
		Status:    status,
	}
}

func mustService(t *testing.T, repo StoreRepository, invitations InvitationReader) Service {
	t.Helper()
	svc, err := NewService(repo, invitations)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	return appErr.Code()
}

func TestEnsureMemberOwner(t *testing.T) {
	repo := newStubStoreRepo()
	owner := uuid.New()
	store := models.Store{OwnerID: owner}
	_ = repo.Create(context.Background(), &store)
	svc := mustService(t, repo, &stubInvitationReader{})

	if err := svc.EnsureMember(context.Background(), store.ID, owner); err != nil {
		t.Fatalf("owner should be a member: %v", err)
	}
}

func TestEnsureMemberAcceptedInvitation(t *testing.T) {
	repo := newStubStoreRepo()
	owner := uuid.New()
	collaborator := uuid.New()
	store := models.Store{OwnerID: owner}
	_ = repo.Create(context.Background(), &store)

	invitations := &stubInvitationReader{}
	invitations.put(store.ID, collaborator, enums.InvitationStatusAccepted)
	svc := mustService(t, repo, invitations)

	if err := svc.EnsureMember(context.Background(), store.ID, collaborator); err != nil {
		t.Fatalf("accepted collaborator should be a member: %v", err)
	}
}

func TestEnsureMemberPendingInvitationForbidden(t *testing.T) {
	repo := newStubStoreRepo()
	owner := uuid.New()
	invitee := uuid.New()
	store := models.Store{OwnerID: owner}
	_ = repo.Create(context.Background(), &store)

	invitations := &stubInvitationReader{}
	invitations.put(store.ID, invitee, enums.InvitationStatusPending)
	svc := mustService(t, repo, invitations)

	err := svc.EnsureMember(context.Background(), store.ID, invitee)
	if got := codeOf(t, err); got != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
}

func TestEnsureMemberMissingStore(t *testing.T) {
	svc := mustService(t, newStubStoreRepo(), &stubInvitationReader{})

	err := svc.EnsureMember(context.Background(), uuid.New(), uuid.New())
	if got := codeOf(t, err); got != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestEnsureMemberStranger(t *testing.T) {
	repo := newStubStoreRepo()
	store := models.Store{OwnerID: uuid.New()}
	_ = repo.Create(context.Background(), &store)
	svc := mustService(t, repo, &stubInvitationReader{})

	err := svc.EnsureMember(context.Background(), store.ID, uuid.New())
	if got := codeOf(t, err); got != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
}

func TestUpdateRequiresOwner(t *testing.T) {
	repo := newStubStoreRepo()
	store := models.Store{OwnerID: uuid.New(), Name: "Greenmart"}
	_ = repo.Create(context.Background(), &store)
	svc := mustService(t, repo, &stubInvitationReader{})

	name := "Corner Shop"
	_, err := svc.Update(context.Background(), uuid.New(), store.ID, UpdateStoreInput{Name: &name})
	if got := codeOf(t, err); got != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := mustService(t, newStubStoreRepo(), &stubInvitationReader{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateStoreInput{Name: "   "})
	if got := codeOf(t, err); got != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", got)
	}
}
