package enums

import "fmt"

// Category identifies a menu section of the storefront catalog.
type Category string

const (
	CategoryBurgers    Category = "burgers"
	CategoryPizza      Category = "pizza"
	CategorySalads     Category = "salads"
	CategorySandwiches Category = "sandwiches"
	CategoryDrinks     Category = "drinks"
)

// CategoryAll is the filter sentinel matching every category.
const CategoryAll Category = "all"

var validCategories = []Category{
	CategoryBurgers,
	CategoryPizza,
	CategorySalads,
	CategorySandwiches,
	CategoryDrinks,
}

// Categories lists every concrete menu category in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
