package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/report"
	"github.com/bistro-ops/bistro/internal/services/alerts"
	"github.com/bistro-ops/bistro/internal/services/analytics"
)

func (c *cli) alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Low stock and expiry alerts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show current alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			current, err := s.Alerts.Current(cmd.Context())
			if err != nil {
				return err
			}
			if len(current) == 0 {
				fmt.Fprintln(c.out, "No alerts.")
				return nil
			}
			for _, msg := range alerts.Messages(current) {
				fmt.Fprintln(c.out, msg)
			}
			return nil
		},
	})

	var to string
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Email the current alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				to = c.cfg.Alerts.Recipient
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			status, err := s.Alerts.Dispatch(cmd.Context(), to)
			if err != nil {
				return err
			}

			switch status {
			case alerts.SendStatusSent:
				fmt.Fprintf(c.out, "Alerts sent to %s.\n", to)
			case alerts.SendStatusNoAlerts:
				fmt.Fprintln(c.out, "No alerts to send.")
			case alerts.SendStatusNoDestination:
				fmt.Fprintln(c.out, "No recipient: pass --to or set alerts.recipient.")
			default:
				fmt.Fprintf(c.out, "Send finished with status %s.\n", status)
			}
			return nil
		},
	}
	sendCmd.Flags().StringVar(&to, "to", "", "Recipient address (default alerts.recipient)")
	cmd.AddCommand(sendCmd)

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent alert dispatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			records, err := s.Alerts.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(c.out, "No alerts dispatched yet.")
				return nil
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "Sent\tStatus\tAlerts\tDestination\tError")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.SentAt.Format("2006-01-02 15:04"), r.Status, r.AlertCount, r.Destination, r.Error)
			}
			return tw.Flush()
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of dispatches to show")
	cmd.AddCommand(historyCmd)

	return cmd
}

// rangeFlags binds --from and --to on cmd.
func rangeFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "First date (YYYY-MM-DD, default first dataset date)")
	cmd.Flags().StringVar(to, "to", "", "Last date (YYYY-MM-DD, default last dataset date)")
}

func parseRange(from, to string) (models.Date, models.Date, error) {
	start, err := parseDateFlag("from", from)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	end, err := parseDateFlag("to", to)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	return start, end, nil
}

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "KPI reports over the transaction dataset",
	}

	var from, to string
	kpiCmd := &cobra.Command{
		Use:   "kpi",
		Short: "Print KPI totals and the per-day table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.report(cmd, from, to)
			if err != nil {
				return err
			}
			return report.WriteSummary(c.out, r, c.cfg.Restaurant.Currency)
		},
	}
	rangeFlags(kpiCmd, &from, &to)
	cmd.AddCommand(kpiCmd)

	var exportFrom, exportTo, output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.report(cmd, exportFrom, exportTo)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return report.WriteCSV(c.out, r)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := report.WriteCSV(f, r); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Exported %d days to %s.\n", len(r.Rows), output)
			return nil
		},
	}
	rangeFlags(exportCmd, &exportFrom, &exportTo)
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.AddCommand(exportCmd)

	return cmd
}

func (c *cli) report(cmd *cobra.Command, from, to string) (*analytics.Report, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	s, err := c.session(cmd.Context())
	if err != nil {
		return nil, err
	}
	return s.Analytics.Report(cmd.Context(), start, end)
}

func (c *cli) analyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Business intelligence over the transaction dataset",
	}

	var from, to string
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print KPIs, week over week, anomalies, forecast, health and insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			d, err := s.Analytics.Dashboard(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return c.printDashboard(d)
		},
	}
	rangeFlags(dashboardCmd, &from, &to)
	cmd.AddCommand(dashboardCmd)

	return cmd
}

func (c *cli) printDashboard(d *analytics.Dashboard) error {
	if d.KPI.Days == 0 {
		fmt.Fprintln(c.out, "No transaction data loaded. Run `bistro seed` or set storage.dataset_path.")
		return nil
	}

	if err := report.WriteSummary(c.out, &analytics.Report{Range: d.Range, KPI: d.KPI}, c.cfg.Restaurant.Currency); err != nil {
		return err
	}

	tw := newTable(c.out)

	if w := d.Week; !w.Anchor.IsZero() {
		fmt.Fprintf(tw, "\nWeek of %s vs %s\n", w.CurrentStart, w.PreviousStart)
		fmt.Fprintf(tw, "Revenue\t%s\t%s\t%+.1f%%\n", c.money(w.Current.Revenue), c.money(w.Previous.Revenue), w.RevenueChange)
		fmt.Fprintf(tw, "Expenses\t%s\t%s\t%+.1f%%\n", c.money(w.Current.Expenses), c.money(w.Previous.Expenses), w.ExpenseChange)
		fmt.Fprintf(tw, "Net Profit\t%s\t%s\t%+.1f%%\n", c.money(w.Current.NetProfit), c.money(w.Previous.NetProfit), w.ProfitChange)
	}

	fmt.Fprintln(tw, "\nAnomalies")
	switch {
	case d.AnomalyNote != "":
		fmt.Fprintln(tw, d.AnomalyNote)
	case len(d.Anomalies) == 0:
		fmt.Fprintln(tw, "None.")
	}
	for _, a := range d.Anomalies {
		fmt.Fprintf(tw, "%s\t%s\t%s\tz=%.2f\n", a.Date, a.Metric, c.money(a.Value), a.ZScore)
	}

	fmt.Fprintln(tw, "\nSales forecast")
	if d.ForecastNote != "" {
		fmt.Fprintln(tw, d.ForecastNote)
	}
	for _, p := range d.Forecast {
		fmt.Fprintf(tw, "%s\t%s\n", p.Date, c.money(p.Value))
	}

	h := d.Health
	fmt.Fprintf(tw, "\nHealth (%s: revenue < %s or expenses > %s)\n", h.Mode, c.money(h.RevenueThreshold), c.money(h.ExpenseThreshold))
	if h.Healthy() {
		fmt.Fprintln(tw, "All days within thresholds.")
	}
	for _, f := range h.Flags {
		var why []string
		if f.LowRevenue {
			why = append(why, "low revenue")
		}
		if f.HighExpenses {
			why = append(why, "high expenses")
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Date, strings.Join(why, ", "))
	}

	if len(d.Insights) > 0 || len(d.TopItems) > 0 {
		fmt.Fprintln(tw, "\nInsights")
	}
	for _, in := range d.Insights {
		fmt.Fprintln(tw, in.Message)
	}
	for _, it := range d.TopItems {
		fmt.Fprintf(tw, "%s\t%s\n", it.Item, c.money(it.Revenue))
	}

	return tw.Flush()
}
