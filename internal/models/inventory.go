package models

// LowStockThreshold is the highest quantity still classed as low stock.
// The low-stock alert rule uses the same value.
const LowStockThreshold = 10

// StockStatus classifies an inventory quantity.
type StockStatus string

const (
	StockStatusOut  StockStatus = "Out of Stock"
	StockStatusLow  StockStatus = "Low Stock"
	StockStatusGood StockStatus = "Good Stock"
)

func (s StockStatus) String() string {
	return string(s)
}

// StatusForQuantity derives the stock status from a quantity.
func StatusForQuantity(qty int) StockStatus {
	switch {
	case qty <= 0:
		return StockStatusOut
	case qty <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusGood
	}
}

// InventoryItem is a stocked ingredient or supply, keyed by Item name.
type InventoryItem struct {
	Item       string      `json:"Item"`
	Quantity   int         `json:"Quantity"`
	Expiration Date        `json:"Expiration"`
	Status     StockStatus `json:"Status"`
}

// Normalize recomputes the derived Status from Quantity.
func (i *InventoryItem) Normalize() {
	i.Status = StatusForQuantity(i.Quantity)
}

// IsLowStock reports whether the item has reached the restocking threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= LowStockThreshold
}

// ExpiresWithin reports whether the item expires on or before today+days.
func (i *InventoryItem) ExpiresWithin(today Date, days int) bool {
	if i.Expiration.IsZero() {
		return false
	}
	return !i.Expiration.After(today.AddDays(days))
}
