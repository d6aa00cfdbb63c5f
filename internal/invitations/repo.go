package invitations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
)

// Repository encapsulates invitation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an invitation repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the invitation or, when one already exists for the same
// (store, invitee) pair, replaces it wholesale. Re-inviting a user who
// previously rejected resets the invitation to pending.
func (r *Repository) Upsert(ctx context.Context, invitation *models.StoreInvitation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "invitee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "invited_by_id", "invited_at", "invitee_email", "updated_at"}),
		}).
		Create(invitation).Error
}

// FindByID loads one invitation by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.StoreInvitation, error) {
	var invitation models.StoreInvitation
	err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error
	return invitation, err
}

// FindByStoreAndInvitee loads the single invitation for a (store, invitee) pair.
func (r *Repository) FindByStoreAndInvitee(ctx context.Context, storeID, inviteeID uuid.UUID) (models.StoreInvitation, error) {
	var invitation models.StoreInvitation
	err := r.db.WithContext(ctx).
		First(&invitation, "store_id = ? AND invitee_id = ?", storeID, inviteeID).Error
	return invitation, err
}

// ListForStore returns every invitation issued for a store.
func (r *Repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.StoreInvitation, error) {
	var invitations []models.StoreInvitation
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("invited_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// ListPendingForInvitee returns the invitations still awaiting the user's answer.
func (r *Repository) ListPendingForInvitee(ctx context.Context, inviteeID uuid.UUID) ([]models.StoreInvitation, error) {
	var invitations []models.StoreInvitation
	err := r.db.WithContext(ctx).
		Where("invitee_id = ? AND status = ?", inviteeID, enums.InvitationStatusPending).
		Order("invited_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Save persists a status change.
func (r *Repository) Save(ctx context.Context, invitation *models.StoreInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// Delete removes an invitation, revoking pending access.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StoreInvitation{}, "id = ?", id).Error
}
