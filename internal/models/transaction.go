package models

// Transaction is one row of the daily financial dataset. Rows are read-only.
type Transaction struct {
	Date          Date
	Revenue       float64
	TotalExpenses float64
	NetProfit     float64
	FoodCosts     float64
	LaborCosts    float64
	Utilities     float64
	Miscellaneous float64

	// Optional columns present in itemised exports.
	Category string
	Item     string
}

// FoodCostRatio returns FoodCosts/Revenue, or 0 when there is no revenue.
func (t Transaction) FoodCostRatio() float64 {
	if t.Revenue == 0 {
		return 0
	}
	return t.FoodCosts / t.Revenue
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start Date
	End   Date
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Contains reports whether d falls inside the range, both ends included.
func (r DateRange) Contains(d Date) bool {
	return d.Between(r.Start, r.End)
}
