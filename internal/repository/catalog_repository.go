package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// CatalogRepository defines the interface for menu catalog access. Items
// carry the name of their catalog category, or "" when uncategorized.
type CatalogRepository interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.CategoryInfo, error)
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
}

// InMemoryCatalogRepository implements CatalogRepository with in-memory storage
type InMemoryCatalogRepository struct {
	categories []models.CategoryInfo
	items      []models.MenuItem
	byID       map[string]int
}

const imageBase = "https://primary.jwwb.nl/public/u/j/n/temp-bowwtiiwxiqnvhtdgcyg/"

// NewInMemoryCatalogRepository creates a catalog seeded with the Mint Kitchen menu
func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	categories := []models.CategoryInfo{
		{ID: "cat-dosas", Name: "Dosas"},
		{ID: "cat-biryanis", Name: "Biryanis"},
		{ID: "cat-curries", Name: "Curries"},
	}

	items := []models.MenuItem{
		{
			ID:          "ghee-dosa",
			Name:        "Ghee Dosa",
			Description: "Thin and crispy dosa made from fermented rice-lentil batter, cooked with pure ghee for a rich, golden finish. Served with chutney & sambar.",
			Price:       money.MustParsePrice("$6.00"),
			Image:       imageBase + "image-high.png",
			Category:    "Dosas",
		},
		{
			ID:          "masala-dosa",
			Name:        "Masala Dosa",
			Description: "Crisp dosa filled with a mildly spiced potato-onion masala. Served with chutney & sambar.",
			Price:       money.MustParsePrice("$8.00"),
			Image:       imageBase + "1000152034-high.jpg",
			Category:    "Dosas",
		},
		{
			ID:          "mysore-masala-dosa",
			Name:        "Mysore Masala Dosa",
			Description: "Dosa spread with a tangy red chutney and stuffed with spiced potato masala.",
			Price:       money.MustParsePrice("$8.00"),
			Image:       imageBase + "1000152033-high.jpg",
			Category:    "Dosas",
		},
		{
			ID:          "chicken-biryani",
			Name:        "Chicken Biryani",
			Description: "Aromatic basmati rice layered with marinated chicken, herbs, saffron, and whole spices, cooked dum-style.",
			Price:       money.MustParsePrice("$14.00"),
			Image:       imageBase + "1000152037-high.jpg",
			Category:    "Biryanis",
		},
		{
			ID:          "mutton-biryani",
			Name:        "Mutton Biryani",
			Description: "Slow-cooked tender mutton and fragrant rice infused with robust spices.",
			Price:       money.MustParsePrice("$16.00"),
			Image:       imageBase + "1000152032-high.jpg",
			Category:    "Biryanis",
		},
		{
			ID:          "paneer-biryani",
			Name:        "Paneer Biryani",
			Description: "Cubes of paneer and veggies layered with spiced basmati rice.",
			Price:       money.MustParsePrice("$14.00"),
			Image:       imageBase + "1000152032-high-ap8wfh.jpg",
			Category:    "Biryanis",
		},
		{
			ID:          "butter-chicken",
			Name:        "Butter Chicken",
			Description: "Tender chicken simmered in a creamy tomato-butter sauce with mild North-Indian spices.",
			Price:       money.MustParsePrice("$15.00"),
			Image:       imageBase + "1000152035-high.jpg",
			Category:    "Curries",
		},
		{
			ID:          "paneer-butter-masala",
			Name:        "Paneer Butter Masala",
			Description: "Soft paneer cubes in a rich, buttery tomato gravy, lightly spiced.",
			Price:       money.MustParsePrice("$16.00"),
			Image:       imageBase + "1000152040-high.jpg",
			Category:    "Curries",
		},
		{
			ID:          "chicken-curry-coconut",
			Name:        "Chicken Curry (Coconut Milk)",
			Description: "Chicken stewed in a coconut-milk curry with onions, tomatoes, and coastal spices.",
			Price:       money.MustParsePrice("$16.00"),
			Image:       imageBase + "1000152030-high.jpg",
			Category:    "Curries",
		},
	}

	return NewCatalogRepositoryFrom(categories, items)
}

// NewCatalogRepositoryFrom creates a catalog from the given data. Item order
// is preserved.
func NewCatalogRepositoryFrom(categories []models.CategoryInfo, items []models.MenuItem) *InMemoryCatalogRepository {
	byID := make(map[string]int, len(items))
	for i, item := range items {
		byID[item.Key()] = i
	}
	return &InMemoryCatalogRepository{
		categories: categories,
		items:      items,
		byID:       byID,
	}
}

// ListItems returns all items in catalog order
func (r *InMemoryCatalogRepository) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, len(r.items))
	copy(items, r.items)
	return items, nil
}

// ListCategories returns all categories
func (r *InMemoryCatalogRepository) ListCategories(ctx context.Context) ([]models.CategoryInfo, error) {
	categories := make([]models.CategoryInfo, len(r.categories))
	copy(categories, r.categories)
	return categories, nil
}

// GetItem returns an item by its ID
func (r *InMemoryCatalogRepository) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	i, exists := r.byID[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	item := r.items[i]
	return &item, nil
}
