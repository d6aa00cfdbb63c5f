package fooditems

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealvine/mealvine-backend/pkg/db/models"
)

type stubFoodItemRepo struct {
	byID map[uuid.UUID]models.FoodItem
}

func newStubFoodItemRepo() *stubFoodItemRepo {
	return &stubFoodItemRepo{byID: map[uuid.UUID]models.FoodItem{}}
}

func (s *stubFoodItemRepo) Create(_ context.Context, item *models.FoodItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.byID[item.ID] = *item
	return nil
}

func (s *stubFoodItemRepo) FindByID(_ context.Context, id uuid.UUID) (models.FoodItem, error) {
	item, ok := s.byID[id]
	if !ok {
		return models.FoodItem{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubFoodItemRepo) FindByIDs(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.FoodItem, error) {
	var out []models.FoodItem
	for _, id := range ids {
		if item, ok := s.byID[id]; ok && item.StoreID == storeID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubFoodItemRepo) ListForStore(_ context.Context, storeID uuid.UUID) ([]models.FoodItem, error) {
	var out []models.FoodItem
	for _, item := range s.byID {
		if item.StoreID == storeID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubFoodItemRepo) Save(_ context.Context, item *models.FoodItem) error {
	s.byID[item.ID] = *item
	return nil
}

func (s *stubFoodItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

type allowAllAccess struct{}

func (allowAllAccess) EnsureMember(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func TestResolveNamesSingularAtOne(t *testing.T) {
	repo := newStubFoodItemRepo()
	storeID := uuid.New()
	apple := models.FoodItem{StoreID: storeID, NameSingular: "apple", NamePlural: "apples"}
	_ = repo.Create(context.Background(), &apple)

	svc, err := NewService(repo, allowAllAccess{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	names, err := svc.ResolveNames(context.Background(), storeID, []NameRequest{
		{FoodItemID: apple.ID, Quantity: 1, Fallback: "client apple"},
	})
	if err != nil {
		t.Fatalf("ResolveNames: %v", err)
	}
	if names[apple.ID] != "apple" {
		t.Fatalf("expected singular at quantity one, got %q", names[apple.ID])
	}
}

func TestResolveNamesPluralOtherwise(t *testing.T) {
	repo := newStubFoodItemRepo()
	storeID := uuid.New()
	apple := models.FoodItem{StoreID: storeID, NameSingular: "apple", NamePlural: "apples"}
	_ = repo.Create(context.Background(), &apple)

	svc, _ := NewService(repo, allowAllAccess{})

	names, err := svc.ResolveNames(context.Background(), storeID, []NameRequest{
		{FoodItemID: apple.ID, Quantity: 3, Fallback: "x"},
	})
	if err != nil {
		t.Fatalf("ResolveNames: %v", err)
	}
	if names[apple.ID] != "apples" {
		t.Fatalf("expected plural, got %q", names[apple.ID])
	}
}

func TestResolveNamesFractionalQuantityUsesPlural(t *testing.T) {
	repo := newStubFoodItemRepo()
	storeID := uuid.New()
	flour := models.FoodItem{StoreID: storeID, NameSingular: "cup of flour", NamePlural: "cups of flour"}
	_ = repo.Create(context.Background(), &flour)

	svc, _ := NewService(repo, allowAllAccess{})

	names, err := svc.ResolveNames(context.Background(), storeID, []NameRequest{
		{FoodItemID: flour.ID, Quantity: 0.5, Fallback: "x"},
	})
	if err != nil {
		t.Fatalf("ResolveNames: %v", err)
	}
	if names[flour.ID] != "cups of flour" {
		t.Fatalf("expected plural for fractional quantity, got %q", names[flour.ID])
	}
}

func TestResolveNamesFallsBackWhenMissing(t *testing.T) {
	svc, _ := NewService(newStubFoodItemRepo(), allowAllAccess{})
	storeID := uuid.New()
	ghost := uuid.New()

	names, err := svc.ResolveNames(context.Background(), storeID, []NameRequest{
		{FoodItemID: ghost, Quantity: 2, Fallback: "mystery item"},
	})
	if err != nil {
		t.Fatalf("ResolveNames: %v", err)
	}
	if names[ghost] != "mystery item" {
		t.Fatalf("expected fallback name, got %q", names[ghost])
	}
}

func TestCreateDefaultsPluralToSingular(t *testing.T) {
	repo := newStubFoodItemRepo()
	svc, _ := NewService(repo, allowAllAccess{})

	dto, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateFoodItemInput{NameSingular: "rice"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.NamePlural != "rice" {
		t.Fatalf("expected plural defaulted to singular, got %q", dto.NamePlural)
	}
}
