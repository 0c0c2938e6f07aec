package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/bistro-ops/bistro/internal/models"
)

// Today is the fixed "today" used across service tests.
var Today = models.NewDate(2024, time.June, 15)

// Now is noon on Today.
var Now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// FixtureMenuItem creates a test menu item with sensible defaults.
func FixtureMenuItem(overrides ...func(*models.MenuItem)) models.MenuItem {
	item := models.MenuItem{
		ID:          uuid.New().String(),
		Name:        "Margherita Pizza",
		Price:       12.5,
		Description: "Tomato, mozzarella, basil",
	}

	for _, override := range overrides {
		override(&item)
	}

	return item
}

// FixtureInventoryItem creates a well-stocked, far-from-expiry inventory item.
func FixtureInventoryItem(overrides ...func(*models.InventoryItem)) models.InventoryItem {
	item := models.InventoryItem{
		Item:       "Flour",
		Quantity:   40,
		Expiration: Today.AddDays(90),
	}

	for _, override := range overrides {
		override(&item)
	}
	item.Normalize()

	return item
}

// FixtureWasteEntry creates a test waste entry dated Today.
func FixtureWasteEntry(overrides ...func(*models.WasteEntry)) models.WasteEntry {
	entry := models.WasteEntry{
		ID:       uuid.New().String(),
		Item:     "Bread",
		Quantity: 3,
		Reason:   models.WasteReasonSpoiled,
		Date:     Today,
	}

	for _, override := range overrides {
		override(&entry)
	}

	return entry
}

// FixtureShift creates a test staff shift on Today.
func FixtureShift(overrides ...func(*models.StaffShift)) models.StaffShift {
	shift := models.StaffShift{
		ID:   uuid.New().String(),
		Name: "Alex",
		Date: Today,
		Time: "09:00",
		Role: models.StaffRoleChef,
	}

	for _, override := range overrides {
		override(&shift)
	}

	return shift
}

// FixtureTransaction creates a dataset row with consistent totals.
func FixtureTransaction(date models.Date, revenue, expenses float64, overrides ...func(*models.Transaction)) models.Transaction {
	txn := models.Transaction{
		Date:          date,
		Revenue:       revenue,
		TotalExpenses: expenses,
		NetProfit:     revenue - expenses,
		FoodCosts:     expenses * 0.4,
		LaborCosts:    expenses * 0.35,
		Utilities:     expenses * 0.15,
		Miscellaneous: expenses * 0.1,
	}

	for _, override := range overrides {
		override(&txn)
	}

	return txn
}

// FixtureTransactions creates one row per day starting at start, with the
// given revenues and a flat 60% expense ratio.
func FixtureTransactions(start models.Date, revenues ...float64) []models.Transaction {
	rows := make([]models.Transaction, len(revenues))
	for i, rev := range revenues {
		rows[i] = FixtureTransaction(start.AddDays(i), rev, rev*0.6)
	}
	return rows
}
