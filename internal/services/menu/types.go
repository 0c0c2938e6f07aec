package menu

// AddInput holds a new menu item as captured from a form or flags.
type AddInput struct {
	Name        string
	Price       string
	Description string
}
