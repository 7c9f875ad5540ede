package models

import (
	"strings"

	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

// Category is one of the menu tabs.
type Category string

const (
	CategoryDosas    Category = "dosas"
	CategoryBiryanis Category = "biryanis"
	CategoryCurries  Category = "curries"
	CategoryOther    Category = "other"
)

// Tabs lists the categories shown to customers, in display order.
var Tabs = []Category{CategoryDosas, CategoryBiryanis, CategoryCurries}

// Title returns the tab label, e.g. "Dosas".
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Price `json:"price"`
	Image       string      `json:"image,omitempty"`
	Category    string      `json:"category,omitempty"`
}

// Key returns the identifier used for cart lines. Items without an id are
// keyed by name.
func (m MenuItem) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name
}

// Menu groups the dishes by tab
// Schema matches GET /api/menu
type Menu struct {
	Dosas    []MenuItem `json:"dosas"`
	Biryanis []MenuItem `json:"biryanis"`
	Curries  []MenuItem `json:"curries"`
	Other    []MenuItem `json:"other,omitempty"`
}

// Items returns the dishes of one category.
func (m *Menu) Items(c Category) []MenuItem {
	switch c {
	case CategoryDosas:
		return m.Dosas
	case CategoryBiryanis:
		return m.Biryanis
	case CategoryCurries:
		return m.Curries
	case CategoryOther:
		return m.Other
	}
	return nil
}

// Add appends an item to a category. Unknown categories land in Other.
func (m *Menu) Add(c Category, item MenuItem) {
	switch c {
	case CategoryDosas:
		m.Dosas = append(m.Dosas, item)
	case CategoryBiryanis:
		m.Biryanis = append(m.Biryanis, item)
	case CategoryCurries:
		m.Curries = append(m.Curries, item)
	default:
		m.Other = append(m.Other, item)
	}
}

// Normalize fills missing ids from names so every item has a cart key.
func (m *Menu) Normalize() {
	for _, items := range [][]MenuItem{m.Dosas, m.Biryanis, m.Curries, m.Other} {
		for i := range items {
			items[i].ID = items[i].Key()
		}
	}
}

// Images returns every non-empty image URL on the menu.
func (m *Menu) Images() []string {
	var urls []string
	for _, items := range [][]MenuItem{m.Dosas, m.Biryanis, m.Curries, m.Other} {
		for _, item := range items {
			if item.Image != "" {
				urls = append(urls, item.Image)
			}
		}
	}
	return urls
}

// CategoryInfo is a catalog category.
type CategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryList is the body of GET /api/categories
type CategoryList struct {
	Categories []CategoryInfo `json:"categories"`
}
