package inventory

// AddInput holds a new inventory item as captured from a form or flags.
type AddInput struct {
	Item       string
	Quantity   string
	Expiration string
}

// UpdateInput holds changes for an existing item. Blank fields are left
// unchanged.
type UpdateInput struct {
	Quantity   string
	Expiration string
}
