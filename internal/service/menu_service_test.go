package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		item     models.MenuItem
		expected models.Category
	}{
		{name: "dosa category", item: models.MenuItem{Name: "House Special", Category: "Dosas"}, expected: models.CategoryDosas},
		{name: "biryani category", item: models.MenuItem{Name: "House Special", Category: "Hyderabadi Biryani"}, expected: models.CategoryBiryanis},
		{name: "curry category", item: models.MenuItem{Name: "House Special", Category: "Curry"}, expected: models.CategoryCurries},
		{name: "curries category", item: models.MenuItem{Name: "House Special", Category: "CURRIES"}, expected: models.CategoryCurries},
		{name: "category beats name", item: models.MenuItem{Name: "Masala Dosa", Category: "Drinks"}, expected: models.CategoryOther},
		{name: "name fallback dosa", item: models.MenuItem{Name: "Mysore Masala Dosa"}, expected: models.CategoryDosas},
		{name: "name fallback biryani", item: models.MenuItem{Name: "Paneer Biryani"}, expected: models.CategoryBiryanis},
		{name: "name fallback curry", item: models.MenuItem{Name: "Chicken Curry (Coconut Milk)"}, expected: models.CategoryCurries},
		{name: "name fallback butter chicken", item: models.MenuItem{Name: "Butter Chicken"}, expected: models.CategoryCurries},
		{name: "name fallback paneer butter", item: models.MenuItem{Name: "Paneer Butter Masala"}, expected: models.CategoryCurries},
		{name: "uncategorized", item: models.MenuItem{Name: "Mango Lassi"}, expected: models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.item); got != tt.expected {
				t.Errorf("Categorize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMenuService_GetMenu(t *testing.T) {
	menuService := NewMenuService(repository.NewInMemoryCatalogRepository())

	menu, err := menuService.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("GetMenu() unexpected error: %v", err)
	}

	if len(menu.Dosas) != 3 || len(menu.Biryanis) != 3 || len(menu.Curries) != 3 {
		t.Errorf("unexpected grouping: %d dosas, %d biryanis, %d curries", len(menu.Dosas), len(menu.Biryanis), len(menu.Curries))
	}
	if menu.Other == nil || len(menu.Other) != 0 {
		t.Errorf("expected empty, non-nil other list, got %v", menu.Other)
	}
	if menu.Dosas[0].Name != "Ghee Dosa" {
		t.Errorf("expected catalog order to be kept, first dosa is %q", menu.Dosas[0].Name)
	}
}

func TestMenuService_GetMenu_EmptyCategories(t *testing.T) {
	repo := repository.NewCatalogRepositoryFrom(nil, []models.MenuItem{
		{ID: "lassi", Name: "Mango Lassi", Price: money.MustParsePrice("$4.00")},
	})
	menuService := NewMenuService(repo)

	menu, err := menuService.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("GetMenu() unexpected error: %v", err)
	}
	if menu.Dosas == nil || menu.Biryanis == nil || menu.Curries == nil {
		t.Error("empty tabs must encode as [] not null")
	}
	if len(menu.Other) != 1 {
		t.Errorf("expected 1 other item, got %d", len(menu.Other))
	}
}

type failingCatalog struct{}

func (failingCatalog) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return nil, errors.New("catalog down")
}

func (failingCatalog) ListCategories(ctx context.Context) ([]models.CategoryInfo, error) {
	return nil, errors.New("catalog down")
}

func (failingCatalog) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	return nil, errors.New("catalog down")
}

func TestMenuService_Errors(t *testing.T) {
	menuService := NewMenuService(failingCatalog{})
	ctx := context.Background()

	if _, err := menuService.GetMenu(ctx); err == nil {
		t.Error("GetMenu() expected error")
	}
	if _, err := menuService.GetCategories(ctx); err == nil {
		t.Error("GetCategories() expected error")
	}
}

func TestMenuService_GetItem(t *testing.T) {
	menuService := NewMenuService(repository.NewInMemoryCatalogRepository())
	ctx := context.Background()

	item, err := menuService.GetItem(ctx, "mutton-biryani")
	if err != nil || item.Price.Cents() != 1600 {
		t.Errorf("GetItem() = %+v, %v", item, err)
	}
	if _, err := menuService.GetItem(ctx, "nope"); !errors.Is(err, repository.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	cats, err := menuService.GetCategories(ctx)
	if err != nil || len(cats.Categories) != 3 {
		t.Errorf("GetCategories() = %+v, %v", cats, err)
	}
}
