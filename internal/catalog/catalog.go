package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tastybites/storefront-core/pkg/enums"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
)

// Item is one purchasable menu entry. Items are immutable once the
// catalog is built.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    enums.Category  `json:"category"`
	PrepMinutes *int            `json:"prep_minutes,omitempty"`
	Calories    *int            `json:"calories,omitempty"`
}

// Filter narrows a catalog listing. The zero value matches everything.
type Filter struct {
	Category enums.Category
	Query    string
}

// Service exposes read-only catalog lookups.
type Service interface {
	List(filter Filter) []Item
	Get(id string) (Item, error)
}

type service struct {
	items []Item
	byID  map[string]Item
}

// NewService builds a catalog over a fixed item set, preserving order.
func NewService(items []Item) Service {
	byID := make(map[string]Item, len(items))
	owned := make([]Item, len(items))
	copy(owned, items)
	for _, item := range owned {
		byID[item.ID] = item
	}
	return &service{items: owned, byID: byID}
}

// List returns the items matching the filter in catalog order. Category
// must match exactly unless it is empty or the "all" sentinel; the query
// is a case-insensitive substring over name and description.
func (s *service) List(filter Filter) []Item {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matchAll := filter.Category == "" || filter.Category == enums.CategoryAll

	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if !matchAll && item.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Get returns the item with the given id or a not-found error; callers
// fall back to a safe default view on that error.
func (s *service) Get(id string) (Item, error) {
	if item, ok := s.byID[id]; ok {
		return item, nil
	}
	return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
}
