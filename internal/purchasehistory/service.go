package purchasehistory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/pagination"
)

// Purchase is one bought item as recorded on finish-shop.
type Purchase struct {
	FoodItemID uuid.UUID
	Name       string
	Quantity   float64
	Unit       string
}

// HistoryDTO is the public projection of a purchase snapshot.
type HistoryDTO struct {
	ID              uuid.UUID `json:"id"`
	FoodItemID      uuid.UUID `json:"food_item_id"`
	Name            string    `json:"name"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	LastPurchasedAt time.Time `json:"last_purchased_at"`
}

// HistoryPage is a cursor-paginated slice of history rows.
type HistoryPage struct {
	Records    []HistoryDTO `json:"records"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// HistoryRepository is the persistence surface the service depends on.
type HistoryRepository interface {
	UpsertBatch(ctx context.Context, records []models.PurchaseHistoryRecord) error
	ListForStore(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PurchaseHistoryRecord, error)
}

// AccessChecker authorizes store access.
type AccessChecker interface {
	EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error
}

// Service exposes the "last bought" snapshot per (store, food item).
type Service interface {
	// RecordPurchases upserts one snapshot per purchase; replaying the same
	// batch overwrites the rows with identical data.
	RecordPurchases(ctx context.Context, storeID uuid.UUID, purchases []Purchase, at time.Time) error
	List(ctx context.Context, userID, storeID uuid.UUID, cursorToken string, limit int) (HistoryPage, error)
}

type service struct {
	repo   HistoryRepository
	access AccessChecker
}

// NewService builds a purchase history service with the required dependencies.
func NewService(repo HistoryRepository, access AccessChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "history repo is required")
	}
	if access == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access checker is required")
	}
	return &service{repo: repo, access: access}, nil
}

func (s *service) RecordPurchases(ctx context.Context, storeID uuid.UUID, purchases []Purchase, at time.Time) error {
	if len(purchases) == 0 {
		return nil
	}
	records := make([]models.PurchaseHistoryRecord, 0, len(purchases))
	for _, purchase := range purchases {
		records = append(records, models.PurchaseHistoryRecord{
			StoreID:         storeID,
			FoodItemID:      purchase.FoodItemID,
			Name:            purchase.Name,
			Quantity:        purchase.Quantity,
			Unit:            purchase.Unit,
			LastPurchasedAt: at,
		})
	}
	if err := s.repo.UpsertBatch(ctx, records); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record purchases")
	}
	return nil
}

// List pages through a store's history, newest purchases first.
func (s *service) List(ctx context.Context, userID, storeID uuid.UUID, cursorToken string, limit int) (HistoryPage, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return HistoryPage{}, err
	}
	cursor, err := pagination.ParseCursor(cursorToken)
	if err != nil {
		return HistoryPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	records, err := s.repo.ListForStore(ctx, storeID, cursor, limit)
	if err != nil {
		return HistoryPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase history")
	}

	pageSize := pagination.NormalizeLimit(limit)
	page := HistoryPage{Records: make([]HistoryDTO, 0, len(records))}
	for i, record := range records {
		if i == pageSize {
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: records[i-1].LastPurchasedAt,
				ID:        records[i-1].ID,
			})
			break
		}
		page.Records = append(page.Records, HistoryDTO{
			ID:              record.ID,
			FoodItemID:      record.FoodItemID,
			Name:            record.Name,
			Quantity:        record.Quantity,
			Unit:            record.Unit,
			LastPurchasedAt: record.LastPurchasedAt,
		})
	}
	return page, nil
}
