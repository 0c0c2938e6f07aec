package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bistro-ops/bistro/internal/models"
)

// DefaultFoodCostRatio is the food cost share of revenue above which a day
// is called out.
const DefaultFoodCostRatio = 0.3

// Insight is a plain-language observation about one day.
type Insight struct {
	Date    models.Date
	Message string
}

// Insights calls out days with high food costs or a loss.
func Insights(rows []models.Transaction, foodCostRatio float64) []Insight {
	if foodCostRatio <= 0 {
		foodCostRatio = DefaultFoodCostRatio
	}

	var out []Insight
	for _, r := range rows {
		if r.Revenue > 0 && r.FoodCostRatio() > foodCostRatio {
			out = append(out, Insight{
				Date:    r.Date,
				Message: fmt.Sprintf("High food costs on %s - consider optimizing inventory.", r.Date),
			})
		}
		if r.NetProfit < 0 {
			out = append(out, Insight{
				Date:    r.Date,
				Message: fmt.Sprintf("Loss recorded on %s - review expenses.", r.Date),
			})
		}
	}
	return out
}

// ItemRevenue is total revenue attributed to one item.
type ItemRevenue struct {
	Item    string
	Revenue float64
}

// TopItems ranks items by revenue, highest first. Rows without an Item are
// skipped. n <= 0 returns every item.
func TopItems(rows []models.Transaction, n int) []ItemRevenue {
	sums := make(map[string]float64)
	for _, r := range rows {
		item := strings.TrimSpace(r.Item)
		if item == "" {
			continue
		}
		sums[item] += r.Revenue
	}

	out := make([]ItemRevenue, 0, len(sums))
	for item, rev := range sums {
		out = append(out, ItemRevenue{Item: item, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Item < out[j].Item
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
