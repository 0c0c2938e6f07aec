package models

// MenuItem is a dish offered on the menu. Items are identified by their
// position in the menu file; the ID is informational only.
type MenuItem struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"Name"`
	Price       float64 `json:"Price"`
	Description string  `json:"Description"`
}
