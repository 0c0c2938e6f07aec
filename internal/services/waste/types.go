package waste

import "github.com/bistro-ops/bistro/internal/models"

// AddInput holds a new waste entry. A blank Date means today.
type AddInput struct {
	Item     string
	Quantity string
	Reason   string
	Date     string
}

// ReasonTotal is the summed quantity wasted for one reason.
type ReasonTotal struct {
	Reason models.WasteReason
	Total  int
}
