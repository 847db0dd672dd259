package catalog

import (
	"testing"

	"github.com/tastybites/storefront-core/pkg/enums"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
)

func TestListUnfiltered(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())
	items := svc.List(Filter{})
	if len(items) != 8 {
		t.Fatalf("expected full menu, got %d items", len(items))
	}
	if items[0].ID != "1" || items[7].ID != "8" {
		t.Fatalf("expected catalog order preserved, got %s..%s", items[0].ID, items[7].ID)
	}
}

func TestListByCategory(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())

	burgers := svc.List(Filter{Category: enums.CategoryBurgers})
	if len(burgers) != 2 {
		t.Fatalf("expected 2 burgers, got %d", len(burgers))
	}
	for _, item := range burgers {
		if item.Category != enums.CategoryBurgers {
			t.Fatalf("unexpected category %s", item.Category)
		}
	}

	if all := svc.List(Filter{Category: enums.CategoryAll}); len(all) != 8 {
		t.Fatalf("expected 'all' sentinel to match everything, got %d", len(all))
	}
}

func TestListByQuery(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())

	// Matches name case-insensitively.
	if got := svc.List(Filter{Query: "PIZZA"}); len(got) != 2 {
		t.Fatalf("expected 2 pizza matches, got %d", len(got))
	}
	// Matches description text too.
	if got := svc.List(Filter{Query: "espresso"}); len(got) != 1 || got[0].Name != "Cappuccino" {
		t.Fatalf("expected description match for espresso, got %+v", got)
	}
	// Empty result is valid.
	if got := svc.List(Filter{Query: "sushi"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestListCombinesCategoryAndQuery(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())
	got := svc.List(Filter{Category: enums.CategorySalads, Query: "feta"})
	if len(got) != 1 || got[0].Name != "Greek Salad" {
		t.Fatalf("expected only the greek salad, got %+v", got)
	}
}

func TestListIsIdempotent(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())
	filter := Filter{Category: enums.CategoryPizza, Query: "tomato"}

	first := svc.List(filter)
	refiltered := NewService(first).List(filter)

	if len(first) != len(refiltered) {
		t.Fatalf("refiltering changed the result: %d vs %d", len(first), len(refiltered))
	}
	for i := range first {
		if first[i].ID != refiltered[i].ID {
			t.Fatalf("refiltering reordered items at %d", i)
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	svc := NewService(Menu())

	item, err := svc.Get("3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Name != "Caesar Salad" {
		t.Fatalf("unexpected item %s", item.Name)
	}

	_, err = svc.Get("999")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
