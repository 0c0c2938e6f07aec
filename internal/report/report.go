// Package report renders analytics reports for export.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bistro-ops/bistro/internal/dataset"
	"github.com/bistro-ops/bistro/internal/services/analytics"
)

// WriteCSV writes the report rows with the dataset header.
func WriteCSV(w io.Writer, r *analytics.Report) error {
	return dataset.Write(w, r.Rows)
}

// WriteSummary writes the period, KPI totals and a per-day table as text.
func WriteSummary(w io.Writer, r *analytics.Report, currency string) error {
	money := func(v float64) string {
		return FormatMoney(currency, v)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if r.Range.Start.IsZero() {
		fmt.Fprintln(tw, "Period:\t(no data)")
	} else {
		fmt.Fprintf(tw, "Period:\t%s to %s\n", r.Range.Start, r.Range.End)
	}
	fmt.Fprintf(tw, "Days:\t%d\n", r.KPI.Days)
	fmt.Fprintf(tw, "Revenue:\t%s\n", money(r.KPI.Revenue))
	fmt.Fprintf(tw, "Expenses:\t%s\n", money(r.KPI.Expenses))
	fmt.Fprintf(tw, "Net Profit:\t%s\n", money(r.KPI.NetProfit))
	fmt.Fprintf(tw, "Food Costs:\t%s\n", money(r.KPI.FoodCosts))
	fmt.Fprintf(tw, "Labor Costs:\t%s\n", money(r.KPI.LaborCosts))
	fmt.Fprintf(tw, "Utilities:\t%s\n", money(r.KPI.Utilities))
	fmt.Fprintf(tw, "Miscellaneous:\t%s\n", money(r.KPI.Miscellaneous))

	if len(r.Rows) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Date\tRevenue\tExpenses\tNet Profit")
		for _, row := range r.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Date, money(row.Revenue), money(row.TotalExpenses), money(row.NetProfit))
		}
	}

	return tw.Flush()
}

// FormatMoney formats v with the currency symbol and thousands separators.
func FormatMoney(currency string, v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := fmt.Sprintf("%.2f", v)
	intPart, frac := whole[:len(whole)-3], whole[len(whole)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + currency + b.String() + frac
}
