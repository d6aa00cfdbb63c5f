package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/logger"
)

const defaultListLimit = 50

// NotificationDTO is the public projection of a notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	StoreID   *uuid.UUID             `json:"store_id,omitempty"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationRepository is the persistence surface the service depends on.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

// Service exposes in-app notification delivery and inbox management.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, kind enums.NotificationType, message string) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]NotificationDTO, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo NotificationRepository
	logg *logger.Logger
}

// NewService builds a notification service with the required dependencies.
func NewService(repo NotificationRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Notify records an in-app notification. Callers treat delivery as
// best-effort, so failures are logged and returned but never retried here.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, kind enums.NotificationType, message string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification target is required")
	}
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}

	notification := models.Notification{
		UserID:  userID,
		StoreID: storeID,
		Type:    kind,
		Title:   titleFor(kind),
		Message: message,
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"user_id": userID.String(),
				"type":    kind.String(),
			}), "notification write failed")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

// List returns the caller's inbox, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]NotificationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	records, err := s.repo.ListForUser(ctx, userID, unreadOnly, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	dtos := make([]NotificationDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// MarkRead stamps one of the caller's notifications as read.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	if notification.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not your notification")
	}
	if notification.ReadAt != nil {
		return nil
	}
	if err := s.repo.MarkRead(ctx, notificationID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

// MarkAllRead stamps every unread notification for the caller.
func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func titleFor(kind enums.NotificationType) string {
	switch kind {
	case enums.NotificationTypeInviteReceived:
		return "Store invitation"
	case enums.NotificationTypeInviteAccepted:
		return "Invitation accepted"
	case enums.NotificationTypeInviteRejected:
		return "Invitation declined"
	case enums.NotificationTypeShopFinished:
		return "Shopping trip finished"
	default:
		return "Notification"
	}
}

func toDTO(notification models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		StoreID:   notification.StoreID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
