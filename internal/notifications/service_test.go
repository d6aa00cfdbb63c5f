package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
)

type stubNotificationRepo struct {
	byID      map[uuid.UUID]models.Notification
	created   []models.Notification
	markReads int
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: map[uuid.UUID]models.Notification{}}
}

func (s *stubNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	s.byID[notification.ID] = *notification
	s.created = append(s.created, *notification)
	return nil
}

func (s *stubNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, unreadOnly bool, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.byID {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *stubNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (models.Notification, error) {
	n, ok := s.byID[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (s *stubNotificationRepo) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	n := s.byID[id]
	n.ReadAt = &at
	s.byID[id] = n
	s.markReads++
	return nil
}

func (s *stubNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var count int64
	for id, n := range s.byID {
		if n.UserID != userID || n.ReadAt != nil {
			continue
		}
		n.ReadAt = &at
		s.byID[id] = n
		count++
	}
	return count, nil
}

func codeOfNotificationErr(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	return appErr.Code()
}

func TestNotifyStampsTitleByKind(t *testing.T) {
	repo := newStubNotificationRepo()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	if err := svc.Notify(context.Background(), userID, nil, enums.NotificationTypeInviteReceived, "you are invited"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	if repo.created[0].Title != "Store invitation" {
		t.Fatalf("unexpected title %q", repo.created[0].Title)
	}
}

func TestNotifyRejectsUnknownKind(t *testing.T) {
	repo := newStubNotificationRepo()
	svc, _ := NewService(repo, nil)

	err := svc.Notify(context.Background(), uuid.New(), nil, enums.NotificationType("carrier_pigeon"), "hello")
	if got := codeOfNotificationErr(t, err); got != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", got)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no writes, got %d", len(repo.created))
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newStubNotificationRepo()
	svc, _ := NewService(repo, nil)

	userID := uuid.New()
	notification := models.Notification{UserID: userID, Type: enums.NotificationTypeShopFinished}
	if err := repo.Create(context.Background(), &notification); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.MarkRead(context.Background(), userID, notification.ID); err != nil {
		t.Fatalf("first MarkRead: %v", err)
	}
	if err := svc.MarkRead(context.Background(), userID, notification.ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if repo.markReads != 1 {
		t.Fatalf("expected a single write, got %d", repo.markReads)
	}
}

func TestMarkReadRejectsOtherUsers(t *testing.T) {
	repo := newStubNotificationRepo()
	svc, _ := NewService(repo, nil)

	notification := models.Notification{UserID: uuid.New(), Type: enums.NotificationTypeShopFinished}
	if err := repo.Create(context.Background(), &notification); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := svc.MarkRead(context.Background(), uuid.New(), notification.ID)
	if got := codeOfNotificationErr(t, err); got != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
}

func TestMarkAllReadCountsOnlyUnread(t *testing.T) {
	repo := newStubNotificationRepo()
	svc, _ := NewService(repo, nil)

	userID := uuid.New()
	read := time.Now().UTC()
	for _, n := range []models.Notification{
		{UserID: userID, Type: enums.NotificationTypeInviteAccepted},
		{UserID: userID, Type: enums.NotificationTypeShopFinished, ReadAt: &read},
		{UserID: uuid.New(), Type: enums.NotificationTypeShopFinished},
	} {
		seeded := n
		if err := repo.Create(context.Background(), &seeded); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, err := svc.MarkAllRead(context.Background(), userID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 marked, got %d", count)
	}
}
