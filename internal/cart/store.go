package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tastybites/storefront-core/internal/catalog"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
	"github.com/tastybites/storefront-core/pkg/money"
	"github.com/tastybites/storefront-core/pkg/notify"
	"github.com/tastybites/storefront-core/pkg/watch"
)

// Line is one distinct item in the cart plus its requested quantity.
// Quantity is always at least 1; driving it to zero removes the line.
type Line struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Total returns the line price times quantity, unrounded.
func (l Line) Total() decimal.Decimal {
	return money.Line(l.Item.Price, l.Quantity)
}

// Store owns the cart lines and their derived totals. All mutations
// recompute the derived values before returning, so readers never see
// stale counts.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	itemCount int
	subtotal  decimal.Decimal

	notifier notify.Notifier
	watchers watch.Broadcaster
}

// NewStore builds an empty cart publishing to the given notifier.
func NewStore(notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Nop
	}
	return &Store{
		notifier: notifier,
		subtotal: decimal.Zero,
	}
}

// Subscribe registers a change watcher and returns its cancel function.
func (s *Store) Subscribe(handler func()) func() {
	return s.watchers.Subscribe(handler)
}

// AddItem merges the quantity into an existing line for the same item
// id or appends a new line at the end. Quantities below 1 are rejected;
// the caller contract is add-at-least-one.
func (s *Store) AddItem(item catalog.Item, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].Item.ID == item.ID {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{Item: item, Quantity: quantity})
	}
	s.recompute()
	s.mu.Unlock()

	if merged {
		notify.Success(s.notifier, fmt.Sprintf("%s quantity updated in cart", item.Name))
	} else {
		notify.Success(s.notifier, fmt.Sprintf("%s added to cart", item.Name))
	}
	s.watchers.Notify()
	return nil
}

// UpdateQuantity sets a line's quantity to an absolute value. A value
// of zero or less behaves exactly like RemoveItem. Unknown ids are a
// no-op.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	changed := false
	var name string
	for i := range s.lines {
		if s.lines[i].Item.ID == itemID {
			s.lines[i].Quantity = quantity
			name = s.lines[i].Item.Name
			changed = true
			break
		}
	}
	if changed {
		s.recompute()
	}
	s.mu.Unlock()

	if changed {
		notify.Success(s.notifier, fmt.Sprintf("%s quantity updated in cart", name))
		s.watchers.Notify()
	}
}

// RemoveItem deletes the line for the item id; absent ids are a no-op.
func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	removed := false
	var name string
	for i := range s.lines {
		if s.lines[i].Item.ID == itemID {
			name = s.lines[i].Item.Name
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.recompute()
	}
	s.mu.Unlock()

	if removed {
		notify.Success(s.notifier, fmt.Sprintf("%s removed from cart", name))
		s.watchers.Notify()
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.recompute()
	s.mu.Unlock()

	notify.Success(s.notifier, "Cart cleared")
	s.watchers.Notify()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// ItemCount is the sum of all line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// Subtotal is the sum of price times quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Snapshot captures the lines and subtotal atomically, for consumers
// that must keep evidence of what was purchased after the cart clears.
func (s *Store) Snapshot() ([]Line, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines, s.subtotal
}

// recompute rebuilds the derived totals from the line list. Callers
// hold the mutex.
func (s *Store) recompute() {
	count := 0
	subtotal := decimal.Zero
	for _, line := range s.lines {
		count += line.Quantity
		subtotal = subtotal.Add(line.Total())
	}
	s.itemCount = count
	s.subtotal = subtotal
}
