package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

// MenuService groups the catalog into menu tabs
type MenuService struct {
	repo repository.CatalogRepository
}

// NewMenuService creates a new menu service
func NewMenuService(repo repository.CatalogRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// GetMenu returns every catalog item grouped by category
func (s *MenuService) GetMenu(ctx context.Context) (*models.Menu, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	menu := &models.Menu{
		Dosas:    []models.MenuItem{},
		Biryanis: []models.MenuItem{},
		Curries:  []models.MenuItem{},
		Other:    []models.MenuItem{},
	}
	for _, item := range items {
		menu.Add(Categorize(item), item)
	}
	return menu, nil
}

// GetCategories returns the catalog categories
func (s *MenuService) GetCategories(ctx context.Context) (*models.CategoryList, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &models.CategoryList{Categories: categories}, nil
}

// GetItem returns a single item by ID
func (s *MenuService) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.repo.GetItem(ctx, id)
}

// Categorize picks the menu tab for an item. The catalog category name wins;
// an uncategorized item is placed by its own name.
func Categorize(item models.MenuItem) models.Category {
	if category := strings.ToLower(item.Category); category != "" {
		switch {
		case strings.Contains(category, "dosa"):
			return models.CategoryDosas
		case strings.Contains(category, "biryani"):
			return models.CategoryBiryanis
		case strings.Contains(category, "curry"), strings.Contains(category, "curries"):
			return models.CategoryCurries
		default:
			return models.CategoryOther
		}
	}

	name := strings.ToLower(item.Name)
	switch {
	case strings.Contains(name, "dosa"):
		return models.CategoryDosas
	case strings.Contains(name, "biryani"):
		return models.CategoryBiryanis
	case strings.Contains(name, "curry"),
		strings.Contains(name, "butter chicken"),
		strings.Contains(name, "paneer butter"):
		return models.CategoryCurries
	default:
		return models.CategoryOther
	}
}
