package purchasehistory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/pagination"
)

// Repository encapsulates purchase history persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a purchase history repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBatch writes one snapshot row per record, replacing the previous
// purchase of the same (store, food item) pair in a single statement.
func (r *Repository) UpsertBatch(ctx context.Context, records []models.PurchaseHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "food_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "quantity", "unit", "last_purchased_at"}),
		}).
		Create(&records).Error
}

// ListForStore returns history rows most recently purchased first, using
// cursor pagination keyed on (last_purchased_at, id).
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PurchaseHistoryRecord, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("last_purchased_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))
	if cursor != nil {
		query = query.Where(
			"(last_purchased_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}
	var records []models.PurchaseHistoryRecord
	err := query.Find(&records).Error
	return records, err
}
