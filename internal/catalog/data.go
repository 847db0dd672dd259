package catalog

import (
	"github.com/tastybites/storefront-core/pkg/enums"
	"github.com/tastybites/storefront-core/pkg/money"
)

// Menu returns the static storefront menu. The data is fixed at build
// time; a real menu service would replace this seed.
func Menu() []Item {
	return []Item{
		{
			ID:          "1",
			Name:        "Classic Cheeseburger",
			Price:       money.MustParse("12.99"),
			Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=1500&q=80",
			Description: "Juicy beef patty with melted cheddar, lettuce, tomato, and special sauce on a brioche bun.",
			Category:    enums.CategoryBurgers,
			PrepMinutes: intPtr(15),
			Calories:    intPtr(650),
		},
		{
			ID:          "2",
			Name:        "Margherita Pizza",
			Price:       money.MustParse("14.99"),
			Image:       "https://images.unsplash.com/photo-1604917877934-07d8d248d396?auto=format&fit=crop&w=1500&q=80",
			Description: "Classic pizza with tomato sauce, fresh mozzarella, basil, and extra virgin olive oil.",
			Category:    enums.CategoryPizza,
			PrepMinutes: intPtr(20),
			Calories:    intPtr(800),
		},
		{
			ID:          "3",
			Name:        "Caesar Salad",
			Price:       money.MustParse("10.99"),
			Image:       "https://images.unsplash.com/photo-1550304943-4f24f54ddde9?auto=format&fit=crop&w=1500&q=80",
			Description: "Crisp romaine lettuce, parmesan cheese, croutons, and caesar dressing.",
			Category:    enums.CategorySalads,
			PrepMinutes: intPtr(10),
			Calories:    intPtr(350),
		},
		{
			ID:          "4",
			Name:        "Club Sandwich",
			Price:       money.MustParse("11.99"),
			Image:       "https://images.unsplash.com/photo-1528735602780-2552fd46c7af?auto=format&fit=crop&w=1500&q=80",
			Description: "Triple-decker sandwich with turkey, bacon, lettuce, tomato, and mayo on toasted bread.",
			Category:    enums.CategorySandwiches,
			PrepMinutes: intPtr(12),
			Calories:    intPtr(520),
		},
		{
			ID:          "5",
			Name:        "Cappuccino",
			Price:       money.MustParse("4.99"),
			Image:       "https://images.unsplash.com/photo-1517256064527-09c73fc73e38?auto=format&fit=crop&w=1500&q=80",
			Description: "Espresso with steamed milk and a layer of frothed milk.",
			Category:    enums.CategoryDrinks,
			PrepMinutes: intPtr(5),
			Calories:    intPtr(120),
		},
		{
			ID:          "6",
			Name:        "Mushroom Swiss Burger",
			Price:       money.MustParse("13.99"),
			Image:       "https://images.unsplash.com/photo-1551782450-17144efb9c50?auto=format&fit=crop&w=1500&q=80",
			Description: "Beef patty topped with sautéed mushrooms, Swiss cheese, and truffle aioli.",
			Category:    enums.CategoryBurgers,
			PrepMinutes: intPtr(18),
			Calories:    intPtr(780),
		},
		{
			ID:          "7",
			Name:        "Greek Salad",
			Price:       money.MustParse("11.99"),
			Image:       "https://images.unsplash.com/photo-1540420773420-3366772f4999?auto=format&fit=crop&w=1500&q=80",
			Description: "Fresh cucumbers, tomatoes, olives, red onion, and feta cheese with olive oil dressing.",
			Category:    enums.CategorySalads,
			PrepMinutes: intPtr(8),
			Calories:    intPtr(320),
		},
		{
			ID:          "8",
			Name:        "Pepperoni Pizza",
			Price:       money.MustParse("15.99"),
			Image:       "https://images.unsplash.com/photo-1534308983496-4fabb1a015ee?auto=format&fit=crop&w=1500&q=80",
			Description: "Classic pizza topped with tomato sauce, mozzarella, and spicy pepperoni slices.",
			Category:    enums.CategoryPizza,
			PrepMinutes: intPtr(20),
			Calories:    intPtr(860),
		},
	}
}

func intPtr(value int) *int {
	return &value
}
