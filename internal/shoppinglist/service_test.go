package shoppinglist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/internal/fooditems"
	"github.com/mealvine/mealvine-backend/internal/purchasehistory"
	"github.com/mealvine/mealvine-backend/internal/realtime"
	"github.com/mealvine/mealvine-backend/pkg/db/models"
	"github.com/mealvine/mealvine-backend/pkg/enums"
	pkgerrors "github.com/mealvine/mealvine-backend/pkg/errors"
	"github.com/mealvine/mealvine-backend/pkg/types"
)

type stubListRepo struct {
	mu    sync.Mutex
	lists map[uuid.UUID]models.ShoppingList
	saves int
}

func newStubListRepo() *stubListRepo {
	return &stubListRepo{lists: map[uuid.UUID]models.ShoppingList{}}
}

func (s *stubListRepo) FindByStoreID(_ context.Context, storeID uuid.UUID) (models.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[storeID]
	if !ok {
		return models.ShoppingList{StoreID: storeID, Items: types.ListItems{}}, nil
	}
	copied := list
	copied.Items = append(types.ListItems{}, list.Items...)
	return copied, nil
}

func (s *stubListRepo) Save(_ context.Context, list *models.ShoppingList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	stored := *list
	stored.Items = append(types.ListItems{}, list.Items...)
	s.lists[list.StoreID] = stored
	s.saves++
	return nil
}

func (s *stubListRepo) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type allowAll struct{}

func (allowAll) EnsureMember(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubResolver struct {
	mu       sync.Mutex
	names    map[uuid.UUID]string
	requests []fooditems.NameRequest
}

func (s *stubResolver) ResolveNames(_ context.Context, _ uuid.UUID, requests []fooditems.NameRequest) (map[uuid.UUID]string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, requests...)
	s.mu.Unlock()
	out := make(map[uuid.UUID]string, len(requests))
	for _, request := range requests {
		if name, ok := s.names[request.FoodItemID]; ok {
			out[request.FoodItemID] = name
			continue
		}
		out[request.FoodItemID] = request.Fallback
	}
	return out, nil
}

type recordingHistory struct {
	mu      sync.Mutex
	batches [][]purchasehistory.Purchase
}

func (r *recordingHistory) RecordPurchases(_ context.Context, _ uuid.UUID, purchases []purchasehistory.Purchase, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, purchases)
	return nil
}

func (r *recordingHistory) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (r *recordingPublisher) Broadcast(_ context.Context, _ uuid.UUID, event any, _ uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) last() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

type stubStoreReader struct {
	store models.Store
}

func (s *stubStoreReader) FindByID(context.Context, uuid.UUID) (models.Store, error) {
	if s.store.ID == uuid.Nil {
		return models.Store{}, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []enums.NotificationType
}

func (r *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, _ *uuid.UUID, kind enums.NotificationType, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	return nil
}

type fixture struct {
	svc       Service
	repo      *stubListRepo
	resolver  *stubResolver
	history   *recordingHistory
	publisher *recordingPublisher
	notifier  *recordingNotifier
	storeID   uuid.UUID
	ownerID   uuid.UUID
	actor     Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubListRepo()
	resolver := &stubResolver{names: map[uuid.UUID]string{}}
	history := &recordingHistory{}
	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	storeID := uuid.New()
	ownerID := uuid.New()

	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Access:    allowAll{},
		Resolver:  resolver,
		History:   history,
		Publisher: publisher,
		Stores:    &stubStoreReader{store: models.Store{ID: storeID, Name: "Greenmart", OwnerID: ownerID}},
		Notifier:  notifier,
		Locker:    NewStoreLocker(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{
		svc:       svc,
		repo:      repo,
		resolver:  resolver,
		history:   history,
		publisher: publisher,
		notifier:  notifier,
		storeID:   storeID,
		ownerID:   ownerID,
		actor:     Actor{ID: uuid.New(), Email: "shopper@example.com"},
	}
}

func (f *fixture) seed(t *testing.T, items ...types.ListItem) {
	t.Helper()
	list := models.ShoppingList{StoreID: f.storeID, Items: items}
	if err := f.repo.Save(context.Background(), &list); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	return appErr.Code()
}

func TestToggleFlipsAndBroadcasts(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: itemID, Name: "apples", Quantity: 3})

	result, err := f.svc.Toggle(context.Background(), f.actor, f.storeID, itemID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !result.Checked {
		t.Fatal("expected item checked after first toggle")
	}
	if len(result.Items) != 1 || !result.Items[0].Checked {
		t.Fatal("expected full list with the flipped item in the response")
	}

	event, ok := f.publisher.last().(realtime.ItemCheckedEvent)
	if !ok {
		t.Fatalf("expected item_checked event, got %T", f.publisher.last())
	}
	if event.FoodItemID != itemID || !event.Checked || event.UpdatedBy != f.actor.Email {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: itemID, Name: "apples", Quantity: 3})

	if _, err := f.svc.Toggle(context.Background(), f.actor, f.storeID, itemID); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	result, err := f.svc.Toggle(context.Background(), f.actor, f.storeID, itemID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result.Checked {
		t.Fatal("expected two toggles to restore the unchecked state")
	}
}

func TestToggleUnknownItem(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.ListItem{FoodItemID: uuid.New(), Name: "apples", Quantity: 3})

	_, err := f.svc.Toggle(context.Background(), f.actor, f.storeID, uuid.New())
	if got := codeOf(t, err); got != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFinishShopMovesItemsToHistory(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	bread := uuid.New()
	f.seed(t,
		types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 3, Checked: true},
		types.ListItem{FoodItemID: bread, Name: "bread", Quantity: 1},
	)

	result, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, FinishShopInput{
		CheckedItems: []CheckedItem{{FoodItemID: apples, Name: "apples", Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("FinishShop: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].FoodItemID != bread {
		t.Fatalf("expected only bread to remain, got %+v", result.Items)
	}
	if f.history.batchCount() != 1 {
		t.Fatalf("expected one history batch, got %d", f.history.batchCount())
	}
	if got := f.history.batches[0][0].FoodItemID; got != apples {
		t.Fatalf("expected apples in history, got %s", got)
	}

	event, ok := f.publisher.last().(realtime.ListUpdatedEvent)
	if !ok {
		t.Fatalf("expected list_updated event, got %T", f.publisher.last())
	}
	if len(event.Items) != 1 || event.Items[0].FoodItemID != bread {
		t.Fatalf("expected event to carry the remaining list, got %+v", event.Items)
	}
}

func TestFinishShopRecordsShopperReportedFields(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	// The list says three, the shopper only found one.
	f.seed(t, types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 3, Unit: "kg"})

	if _, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, FinishShopInput{
		CheckedItems: []CheckedItem{{FoodItemID: apples, Name: "apple", Quantity: 1, Unit: "pc"}},
	}); err != nil {
		t.Fatalf("FinishShop: %v", err)
	}

	if len(f.resolver.requests) != 1 {
		t.Fatalf("expected one name request, got %d", len(f.resolver.requests))
	}
	request := f.resolver.requests[0]
	if request.Quantity != 1 {
		t.Fatalf("resolver must see the reported quantity, got %v", request.Quantity)
	}
	if request.Fallback != "apple" {
		t.Fatalf("resolver fallback must be the reported name, got %q", request.Fallback)
	}

	if f.history.batchCount() != 1 {
		t.Fatalf("expected one history batch, got %d", f.history.batchCount())
	}
	purchase := f.history.batches[0][0]
	if purchase.Quantity != 1 || purchase.Unit != "pc" {
		t.Fatalf("history must record the reported quantity and unit, got %+v", purchase)
	}
}

func TestFinishShopEmptyBatchRejectedBeforeWrites(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.ListItem{FoodItemID: uuid.New(), Name: "apples", Quantity: 3})
	savesBefore := f.repo.saveCount()

	_, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, FinishShopInput{})
	if got := codeOf(t, err); got != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", got)
	}
	if f.repo.saveCount() != savesBefore {
		t.Fatal("empty batch must not touch storage")
	}
	if f.history.batchCount() != 0 {
		t.Fatal("empty batch must not write history")
	}
}

func TestFinishShopReplayIsNoOp(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 3})

	input := FinishShopInput{
		CheckedItems: []CheckedItem{{FoodItemID: apples, Name: "apples", Quantity: 3}},
	}
	if _, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, input); err != nil {
		t.Fatalf("first FinishShop: %v", err)
	}
	savesAfterFirst := f.repo.saveCount()

	result, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, input)
	if err != nil {
		t.Fatalf("replayed FinishShop: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected empty list on replay, got %+v", result.Items)
	}
	if f.repo.saveCount() != savesAfterFirst {
		t.Fatal("replay must not write storage again")
	}
	if f.history.batchCount() != 1 {
		t.Fatal("replay must not duplicate history")
	}
}

func TestFinishShopNotifiesOwnerWhenCollaboratorShops(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 3})

	if _, err := f.svc.FinishShop(context.Background(), f.actor, f.storeID, FinishShopInput{
		CheckedItems: []CheckedItem{{FoodItemID: apples, Name: "apples", Quantity: 3}},
	}); err != nil {
		t.Fatalf("FinishShop: %v", err)
	}
	if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != enums.NotificationTypeShopFinished {
		t.Fatalf("expected shop_finished notification, got %v", f.notifier.kinds)
	}
}

func TestFinishShopOwnerShoppingDoesNotSelfNotify(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 3})

	owner := Actor{ID: f.ownerID, Email: "owner@example.com"}
	if _, err := f.svc.FinishShop(context.Background(), owner, f.storeID, FinishShopInput{
		CheckedItems: []CheckedItem{{FoodItemID: apples, Name: "apples", Quantity: 3}},
	}); err != nil {
		t.Fatalf("FinishShop: %v", err)
	}
	if len(f.notifier.kinds) != 0 {
		t.Fatalf("owner finishing their own trip must not notify, got %v", f.notifier.kinds)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	f := newFixture(t)
	apples := uuid.New()
	f.seed(t, types.ListItem{FoodItemID: apples, Name: "apples", Quantity: 2, Checked: true})

	result, err := f.svc.AddItem(context.Background(), f.actor, f.storeID, AddItemInput{
		FoodItemID: apples,
		Name:       "apples",
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(result.Items))
	}
	if result.Items[0].Quantity != 5 {
		t.Fatalf("expected quantities summed to 5, got %v", result.Items[0].Quantity)
	}
	if result.Items[0].Checked {
		t.Fatal("merging must reset the checked flag")
	}
}

func TestRemoveMissingItemIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.ListItem{FoodItemID: uuid.New(), Name: "apples", Quantity: 2})
	savesBefore := f.repo.saveCount()

	result, err := f.svc.RemoveItem(context.Background(), f.actor, f.storeID, uuid.New())
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatal("list must be unchanged")
	}
	if f.repo.saveCount() != savesBefore {
		t.Fatal("no-op remove must not write storage")
	}
}
