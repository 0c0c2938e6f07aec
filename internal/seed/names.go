// Package seed generates demonstration data for a new installation.
package seed

// Dish is a menu entry template.
type Dish struct {
	Name        string
	Category    string
	Price       float64
	Description string
}

// Dishes is the demonstration menu.
var Dishes = []Dish{
	{"Margherita Pizza", "Mains", 12.50, "Tomato, mozzarella, basil"},
	{"Spaghetti Carbonara", "Mains", 14.00, "Guanciale, egg yolk, pecorino"},
	{"Grilled Salmon", "Mains", 19.50, "Lemon butter, seasonal greens"},
	{"Chicken Milanese", "Mains", 16.00, "Breaded cutlet, rocket, parmesan"},
	{"Mushroom Risotto", "Mains", 15.00, "Arborio, porcini, thyme"},
	{"Caesar Salad", "Starters", 9.00, "Romaine, anchovy dressing, croutons"},
	{"Tomato Soup", "Starters", 6.50, "Roasted tomato, basil oil"},
	{"Bruschetta", "Starters", 7.00, "Grilled bread, tomato, garlic"},
	{"Tiramisu", "Desserts", 7.50, "Mascarpone, espresso, cocoa"},
	{"Panna Cotta", "Desserts", 6.50, "Vanilla cream, berry compote"},
	{"House Lemonade", "Drinks", 3.50, "Fresh lemons, mint"},
	{"Espresso", "Drinks", 2.50, ""},
}

// Ingredients are the stocked inventory items.
var Ingredients = []string{
	"Flour", "Tomatoes", "Mozzarella", "Basil", "Spaghetti", "Eggs",
	"Pecorino", "Guanciale", "Salmon", "Lemons", "Chicken Breast",
	"Breadcrumbs", "Rocket", "Arborio Rice", "Porcini", "Romaine",
	"Anchovies", "Bread", "Garlic", "Mascarpone", "Espresso Beans",
	"Cream", "Berries", "Mint", "Olive Oil", "Butter",
}

// GivenNames are used for the staff rota.
var GivenNames = []string{
	"Aaron", "Alice", "Amanda", "Benjamin", "Carol", "Charles", "Daniel",
	"Diana", "Emily", "Eric", "Frank", "Grace", "Hannah", "Henry",
	"Isabella", "Jack", "Julia", "Kevin", "Laura", "Marcus", "Megan",
	"Nathan", "Olivia", "Oscar", "Rachel", "Ryan", "Sophia", "Victor",
}

// Surnames complete staff names.
var Surnames = []string{
	"Adams", "Baker", "Chen", "Cruz", "Davis", "Evans", "Flores", "Garcia",
	"Hughes", "Kim", "Lopez", "Martin", "Nguyen", "Patel", "Reed", "Rivera",
	"Scott", "Turner", "Walker", "Young",
}
