// Package cart holds the customer's in-progress selection. A single Store
// is created per session and injected into every component that reads or
// changes the cart.
package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = 99

var ErrInvalidQuantity = errors.New("quantity must be a whole number between 1 and 99")

// Line is one distinct menu item in the cart. Name, price and image are
// copied from the menu item when it is first added.
type Line struct {
	ItemID   string
	Name     string
	Price    money.Cents
	Image    string
	Quantity int
}

// Subtotal returns price times quantity.
func (l Line) Subtotal() money.Cents {
	return l.Price.Times(l.Quantity)
}

// OrderLineItem converts the line to the order request shape.
func (l Line) OrderLineItem() models.OrderLineItem {
	return models.OrderLineItem{
		ItemID:   l.ItemID,
		Name:     l.Name,
		Quantity: l.Quantity,
		Price:    money.Price(l.Price),
	}
}

// Snapshot is an immutable copy of the cart state.
type Snapshot struct {
	Lines []Line
	Open  bool
	Total money.Cents
	Items int
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// OrderLineItems converts every line to the order request shape.
func (s Snapshot) OrderLineItems() []models.OrderLineItem {
	items := make([]models.OrderLineItem, len(s.Lines))
	for i, l := range s.Lines {
		items[i] = l.OrderLineItem()
	}
	return items
}

// Store is the single source of truth for the cart
type Store struct {
	mu    sync.RWMutex
	lines []Line
	open  bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates an empty, closed cart
func NewStore() *Store {
	return &Store{
		subs: make(map[int]func(Snapshot)),
	}
}

// AddItem adds quantity units of item. An item already in the cart has its
// quantity increased, capped at MaxQuantity; a new item is appended.
func (s *Store) AddItem(item models.MenuItem, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	id := item.Key()
	if id == "" {
		return errors.New("menu item has neither id nor name")
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.lines[i].Quantity = clamp(s.lines[i].Quantity + quantity)
	} else {
		s.lines = append(s.lines, Line{
			ItemID:   id,
			Name:     item.Name,
			Price:    item.Price.Cents(),
			Image:    item.Image,
			Quantity: quantity,
		})
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// RemoveItem deletes the line for itemID. Removing an absent item is a no-op.
func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	i := s.indexOf(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// UpdateQuantity sets the quantity of an existing line. Zero or less removes
// the line, more than MaxQuantity is capped. Unknown items are ignored.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	i := s.indexOf(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = clamp(quantity)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// SetQuantityFromInput applies raw quantity text typed by the customer.
// Blank input is ignored while the customer is still typing; anything that
// is not a whole number is rejected without changing the cart.
func (s *Store) SetQuantityFromInput(itemID, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	qty, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}

	s.UpdateQuantity(itemID, qty)
	return nil
}

// Clear empties the cart. The open flag is left alone.
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return
	}
	s.lines = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Open shows the cart.
func (s *Store) Open() {
	s.setOpen(true)
}

// Close hides the cart.
func (s *Store) Close() {
	s.setOpen(false)
}

// IsOpen reports whether the cart is shown.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Line(nil), s.lines...)
}

// TotalPrice returns the sum of price times quantity over all lines.
func (s *Store) TotalPrice() money.Cents {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.lines)
}

// TotalItems returns the sum of quantities, used for the badge count.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.lines)
}

// Snapshot returns a consistent copy of the whole cart.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) setOpen(open bool) {
	s.mu.Lock()
	if s.open == open {
		s.mu.Unlock()
		return
	}
	s.open = open
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// notify runs outside s.mu so subscribers may read the store.
func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) indexOf(itemID string) int {
	for i, l := range s.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lines: append([]Line(nil), s.lines...),
		Open:  s.open,
		Total: totalPrice(s.lines),
		Items: totalItems(s.lines),
	}
}

func totalPrice(lines []Line) money.Cents {
	var total money.Cents
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func totalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func clamp(qty int) int {
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}
