// Package storefront holds the presentation state of the ordering client:
// which menu tab shows what, and how the cart and checkout read on screen.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/mint-kitchen/internal/gateway"
	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
)

// Availability is the load state of the menu.
type Availability int

const (
	Loading Availability = iota
	Unavailable
	Loaded
)

func (a Availability) String() string {
	switch a {
	case Loading:
		return "loading"
	case Unavailable:
		return "unavailable"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

const (
	MsgLoading     = "Loading menu..."
	MsgUnavailable = "No items currently available"
)

// EmptyCategoryMessage is shown for a category that loaded with no dishes.
func EmptyCategoryMessage(c models.Category) string {
	return fmt.Sprintf("Nothing on the %s menu right now", c.Title())
}

// MenuSource fetches the menu. *gateway.Client satisfies it.
type MenuSource interface {
	FetchMenuData(ctx context.Context) gateway.Result[models.Menu]
}

// ImagePreloader warms images after the menu arrives. *imagecache.Cache
// satisfies it.
type ImagePreloader interface {
	PreloadAll(ctx context.Context, urls []string) error
}

// Tab is what one category tab displays: either items or a message.
type Tab struct {
	Category models.Category
	Items    []models.MenuItem
	Message  string
}

// MenuView is the menu page state.
type MenuView struct {
	source MenuSource
	images ImagePreloader
	log    *slog.Logger

	mu           sync.RWMutex
	availability Availability
	menu         models.Menu
	err          error
}

// NewMenuView creates a view in the Loading state. images may be nil.
func NewMenuView(source MenuSource, images ImagePreloader, log *slog.Logger) *MenuView {
	if log == nil {
		log = slog.Default()
	}
	return &MenuView{
		source: source,
		images: images,
		log:    log,
	}
}

// Load fetches the menu. A failed fetch makes every tab unavailable, which
// is not the same as a category that loaded empty. Image preloading is
// best effort and never fails the load.
func (v *MenuView) Load(ctx context.Context) Availability {
	v.mu.Lock()
	v.availability = Loading
	v.err = nil
	v.mu.Unlock()

	res := v.source.FetchMenuData(ctx)

	v.mu.Lock()
	if !res.OK() {
		v.availability = Unavailable
		v.menu = models.Menu{}
		v.err = res.Err
		v.mu.Unlock()
		v.log.Warn("menu unavailable", "error", res.Err)
		return Unavailable
	}
	v.availability = Loaded
	v.menu = *res.Data
	menu := v.menu
	v.mu.Unlock()

	if v.images != nil {
		if err := v.images.PreloadAll(ctx, menu.Images()); err != nil {
			v.log.Warn("some menu images failed to preload", "error", err)
		}
	}
	return Loaded
}

// Availability returns the current load state.
func (v *MenuView) Availability() Availability {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.availability
}

// Err returns the last load failure, if any.
func (v *MenuView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Tab returns what the given category tab shows.
func (v *MenuView) Tab(c models.Category) Tab {
	v.mu.RLock()
	defer v.mu.RUnlock()

	tab := Tab{Category: c}
	switch v.availability {
	case Loading:
		tab.Message = MsgLoading
	case Unavailable:
		tab.Message = MsgUnavailable
	default:
		tab.Items = v.menu.Items(c)
		if len(tab.Items) == 0 {
			tab.Message = EmptyCategoryMessage(c)
		}
	}
	return tab
}

// Tabs returns every customer-facing tab in display order.
func (v *MenuView) Tabs() []Tab {
	tabs := make([]Tab, 0, len(models.Tabs))
	for _, c := range models.Tabs {
		tabs = append(tabs, v.Tab(c))
	}
	return tabs
}

// Find looks up a loaded item by id across all categories.
func (v *MenuView) Find(itemID string) (models.MenuItem, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, c := range append(append([]models.Category{}, models.Tabs...), models.CategoryOther) {
		for _, item := range v.menu.Items(c) {
			if item.Key() == itemID {
				return item, true
			}
		}
	}
	return models.MenuItem{}, false
}
