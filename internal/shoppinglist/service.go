package shoppinglist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealvine/mealvine-backend/internal/fooditems"
	"github.com/mealvine/mealvine-backend/internal/purchasehistory"
	"github.com/mealvine/mealvine-backend/internal/realtime"
	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/types"
)

// Actor is the authenticated user performing a mutation. The email travels
// on broadcast events so other viewers see who changed the list.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// ListRepository is the persistence surface the service depends on.
type ListRepository interface {
	FindByStoreID(ctx context.Context, storeID uuid.UUID) (models.ShoppingList, error)
	Save(ctx context.Context, list *models.ShoppingList) error
}

// AccessChecker authorizes store access.
type AccessChecker interface {
	EnsureMember(ctx context.Context, storeID, userID uuid.UUID) error
}

// Publisher fans an event out to a store's live viewers.
type Publisher interface {
	Broadcast(ctx context.Context, storeID uuid.UUID, event any, excludeUserID uuid.UUID)
}

// HistoryWriter records bought items on finish-shop.
type HistoryWriter interface {
	RecordPurchases(ctx context.Context, storeID uuid.UUID, purchases []purchasehistory.Purchase, at time.Time) error
}

// StoreReader resolves the store for finish-shop notifications.
type StoreReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.Store, error)
}

// Notifier records an in-app notification for a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, storeID *uuid.UUID, kind enums.NotificationType, message string) error
}

// Service exposes the live shopping list operations.
type Service interface {
	Get(ctx context.Context, userID, storeID uuid.UUID) (ListDTO, error)
	AddItem(ctx context.Context, actor Actor, storeID uuid.UUID, input AddItemInput) (ListDTO, error)
	UpdateItem(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID, input UpdateItemInput) (ListDTO, error)
	RemoveItem(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID) (ListDTO, error)
	Toggle(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID) (ToggleResult, error)
	FinishShop(ctx context.Context, actor Actor, storeID uuid.UUID, input FinishShopInput) (ListDTO, error)
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Repo      ListRepository
	Access    AccessChecker
	Resolver  fooditems.Resolver
	History   HistoryWriter
	Publisher Publisher
	Stores    StoreReader
	Notifier  Notifier
	Locker    *StoreLocker
}

type service struct {
	repo      ListRepository
	access    AccessChecker
	resolver  fooditems.Resolver
	history   HistoryWriter
	publisher Publisher
	stores    StoreReader
	notifier  Notifier
	locker    *StoreLocker
}

// NewService builds a shopping list service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list repo is required")
	}
	if params.Access == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access checker is required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name resolver is required")
	}
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "history writer is required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publisher is required")
	}
	if params.Stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store reader is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.Locker == nil {
		params.Locker = NewStoreLocker()
	}
	return &service{
		repo:      params.Repo,
		access:    params.Access,
		resolver:  params.Resolver,
		history:   params.History,
		publisher: params.Publisher,
		stores:    params.Stores,
		notifier:  params.Notifier,
		locker:    params.Locker,
	}, nil
}

// Get returns the store's current list; a store that never wrote one gets an
// empty document.
func (s *service) Get(ctx context.Context, userID, storeID uuid.UUID) (ListDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, userID); err != nil {
		return ListDTO{}, err
	}
	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	return toDTO(list), nil
}

// AddItem appends a line, or merges quantities when the food item is already
// listed. Merging resets the checked flag so the combined line is shopped again.
func (s *service) AddItem(ctx context.Context, actor Actor, storeID uuid.UUID, input AddItemInput) (ListDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, actor.ID); err != nil {
		return ListDTO{}, err
	}
	if input.FoodItemID == uuid.Nil {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "food item id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity <= 0 {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	unlock := s.locker.Lock(storeID)
	defer unlock()

	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}

	if idx := list.Items.IndexOf(input.FoodItemID); idx >= 0 {
		list.Items[idx].Quantity += input.Quantity
		list.Items[idx].Name = name
		list.Items[idx].Checked = false
		if input.Unit != "" {
			list.Items[idx].Unit = input.Unit
		}
	} else {
		list.Items = append(list.Items, types.ListItem{
			FoodItemID: input.FoodItemID,
			Name:       name,
			Quantity:   input.Quantity,
			Unit:       input.Unit,
		})
	}

	if err := s.repo.Save(ctx, &list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shopping list")
	}

	s.publisher.Broadcast(ctx, storeID, realtime.NewListUpdatedEvent(list.Items, actor.Email), actor.ID)
	return toDTO(list), nil
}

// UpdateItem edits one line in place.
func (s *service) UpdateItem(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID, input UpdateItemInput) (ListDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, actor.ID); err != nil {
		return ListDTO{}, err
	}

	unlock := s.locker.Lock(storeID)
	defer unlock()

	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	idx := list.Items.IndexOf(foodItemID)
	if idx < 0 {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "item is not on the list")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		list.Items[idx].Name = name
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		list.Items[idx].Quantity = *input.Quantity
	}
	if input.Unit != nil {
		list.Items[idx].Unit = *input.Unit
	}

	if err := s.repo.Save(ctx, &list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shopping list")
	}

	s.publisher.Broadcast(ctx, storeID, realtime.NewListUpdatedEvent(list.Items, actor.Email), actor.ID)
	return toDTO(list), nil
}

// RemoveItem drops one line from the list. Removing a line that is not there
// is a no-op so double-taps stay harmless.
func (s *service) RemoveItem(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID) (ListDTO, error) {
	if err := s.access.EnsureMember(ctx, storeID, actor.ID); err != nil {
		return ListDTO{}, err
	}

	unlock := s.locker.Lock(storeID)
	defer unlock()

	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	idx := list.Items.IndexOf(foodItemID)
	if idx < 0 {
		return toDTO(list), nil
	}

	list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
	if err := s.repo.Save(ctx, &list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shopping list")
	}

	s.publisher.Broadcast(ctx, storeID, realtime.NewListUpdatedEvent(list.Items, actor.Email), actor.ID)
	return toDTO(list), nil
}

// Toggle flips the checked flag on one line, persists the document, and
// announces the flip to every other viewer. The actor gets the new state and
// the full list back on the HTTP response instead of an event.
func (s *service) Toggle(ctx context.Context, actor Actor, storeID, foodItemID uuid.UUID) (ToggleResult, error) {
	if err := s.access.EnsureMember(ctx, storeID, actor.ID); err != nil {
		return ToggleResult{}, err
	}

	unlock := s.locker.Lock(storeID)
	defer unlock()

	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}
	idx := list.Items.IndexOf(foodItemID)
	if idx < 0 {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "item is not on the list")
	}

	list.Items[idx].Checked = !list.Items[idx].Checked
	if err := s.repo.Save(ctx, &list); err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shopping list")
	}

	checked := list.Items[idx].Checked
	s.publisher.Broadcast(ctx, storeID, realtime.NewItemCheckedEvent(foodItemID, checked, actor.Email), actor.ID)

	return ToggleResult{FoodItemID: foodItemID, Checked: checked, Items: list.Items}, nil
}

// FinishShop reconciles a completed trip: the reported items move off the
// list and into purchase history with a catalog-resolved display name. The
// shopper's reported name, quantity and unit are what get recorded, not the
// stored line. Reported ids that are not on the list are skipped, which
// makes a replay of the same request a no-op that still answers with the
// remaining items.
func (s *service) FinishShop(ctx context.Context, actor Actor, storeID uuid.UUID, input FinishShopInput) (ListDTO, error) {
	if len(input.CheckedItems) == 0 {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one purchased item is required")
	}
	if err := s.access.EnsureMember(ctx, storeID, actor.ID); err != nil {
		return ListDTO{}, err
	}

	unlock := s.locker.Lock(storeID)
	defer unlock()

	list, err := s.repo.FindByStoreID(ctx, storeID)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shopping list")
	}

	bought := make(map[uuid.UUID]CheckedItem, len(input.CheckedItems))
	for _, item := range input.CheckedItems {
		bought[item.FoodItemID] = item
	}

	var purchased []CheckedItem
	remaining := make(types.ListItems, 0, len(list.Items))
	for _, item := range list.Items {
		if checked, ok := bought[item.FoodItemID]; ok {
			purchased = append(purchased, checked)
		} else {
			remaining = append(remaining, item)
		}
	}

	if len(purchased) == 0 {
		// Replay or stale client: nothing to reconcile, answer with the
		// current document without touching storage.
		return toDTO(list), nil
	}

	requests := make([]fooditems.NameRequest, 0, len(purchased))
	for _, item := range purchased {
		requests = append(requests, fooditems.NameRequest{
			FoodItemID: item.FoodItemID,
			Quantity:   item.Quantity,
			Fallback:   item.Name,
		})
	}
	names, err := s.resolver.ResolveNames(ctx, storeID, requests)
	if err != nil {
		return ListDTO{}, err
	}

	now := time.Now().UTC()
	purchases := make([]purchasehistory.Purchase, 0, len(purchased))
	for _, item := range purchased {
		purchases = append(purchases, purchasehistory.Purchase{
			FoodItemID: item.FoodItemID,
			Name:       names[item.FoodItemID],
			Quantity:   item.Quantity,
			Unit:       item.Unit,
		})
	}
	if err := s.history.RecordPurchases(ctx, storeID, purchases, now); err != nil {
		return ListDTO{}, err
	}

	list.Items = remaining
	if err := s.repo.Save(ctx, &list); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shopping list")
	}

	s.publisher.Broadcast(ctx, storeID, realtime.NewListUpdatedEvent(list.Items, actor.Email), actor.ID)
	s.notifyOwner(ctx, actor, storeID, len(purchased))

	return toDTO(list), nil
}

// notifyOwner tells the store owner someone else finished a trip. Best
// effort only.
func (s *service) notifyOwner(ctx context.Context, actor Actor, storeID uuid.UUID, itemCount int) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil || store.OwnerID == actor.ID {
		return
	}
	_ = s.notifier.Notify(ctx, store.OwnerID, &storeID, enums.NotificationTypeShopFinished,
		fmt.Sprintf("%s bought %d item(s) at %s", actor.Email, itemCount, store.Name))
}

func toDTO(list models.ShoppingList) ListDTO {
	items := list.Items
	if items == nil {
		items = types.ListItems{}
	}
	return ListDTO{StoreID: list.StoreID, Items: items}
}
