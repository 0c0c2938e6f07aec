package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/report"
	"github.com/bistro-ops/bistro/internal/services/inventory"
	"github.com/bistro-ops/bistro/internal/services/menu"
	"github.com/bistro-ops/bistro/internal/services/staff"
	"github.com/bistro-ops/bistro/internal/services/waste"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, models.NewValidationError("index", "must be a whole number")
	}
	return n, nil
}

func (c *cli) money(v float64) string {
	return report.FormatMoney(c.cfg.Restaurant.Currency, v)
}

func (c *cli) menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List and edit the menu",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.Menu.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(c.out, "No menu items.")
				return nil
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "#\tName\tPrice\tDescription")
			for i, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, it.Name, c.money(it.Price), it.Description)
			}
			return tw.Flush()
		},
	})

	var add menu.AddInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			item, err := s.Menu.Add(cmd.Context(), add)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added %s at %s.\n", item.Name, c.money(item.Price))
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Name, "name", "", "Item name")
	addCmd.Flags().StringVar(&add.Price, "price", "", "Price")
	addCmd.Flags().StringVar(&add.Description, "description", "", "Description")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the menu item at index (as shown by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			item, err := s.Menu.Delete(cmd.Context(), idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s.\n", item.Name)
			return nil
		},
	})

	return cmd
}

func (c *cli) inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List and edit stock",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.Inventory.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(c.out, "No inventory items.")
				return nil
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "Item\tQuantity\tStatus\tExpiration")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", it.Item, it.Quantity, it.Status, it.Expiration)
			}
			return tw.Flush()
		},
	})

	var add inventory.AddInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an inventory item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			item, err := s.Inventory.Add(cmd.Context(), add)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added %s: %d (%s).\n", item.Item, item.Quantity, item.Status)
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Item, "item", "", "Item name")
	addCmd.Flags().StringVar(&add.Quantity, "quantity", "", "Quantity on hand")
	addCmd.Flags().StringVar(&add.Expiration, "expiration", "", "Expiration date (YYYY-MM-DD)")
	cmd.AddCommand(addCmd)

	var update inventory.UpdateInput
	updateCmd := &cobra.Command{
		Use:   "update <item>",
		Short: "Change the quantity or expiration of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			item, err := s.Inventory.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated %s: %d (%s), expires %s.\n", item.Item, item.Quantity, item.Status, item.Expiration)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Quantity, "quantity", "", "New quantity")
	updateCmd.Flags().StringVar(&update.Expiration, "expiration", "", "New expiration date (YYYY-MM-DD)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <item>",
		Short: "Delete every inventory entry for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			n, err := s.Inventory.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %d entries for %s.\n", n, args[0])
			return nil
		},
	})

	return cmd
}

func (c *cli) wasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waste",
		Short: "Log and review waste",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the waste log with totals by reason",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := s.Waste.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.out, "No waste logged.")
				return nil
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "Date\tItem\tQuantity\tReason")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Date, e.Item, e.Quantity, e.Reason)
			}

			totals, err := s.Waste.TotalsByReason(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "Reason\tTotal")
			for _, t := range totals {
				fmt.Fprintf(tw, "%s\t%d\n", t.Reason, t.Total)
			}
			return tw.Flush()
		},
	})

	var add waste.AddInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log a waste entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			e, err := s.Waste.Add(cmd.Context(), add)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged %d %s (%s) on %s.\n", e.Quantity, e.Item, e.Reason, e.Date)
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Item, "item", "", "Item name")
	addCmd.Flags().StringVar(&add.Quantity, "quantity", "", "Quantity discarded")
	addCmd.Flags().StringVar(&add.Reason, "reason", "", "Spoiled, Over-Prepared or Other")
	addCmd.Flags().StringVar(&add.Date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "forecast",
		Short: "Project daily waste for the coming week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			points, err := s.Analytics.WasteForecast(cmd.Context())
			if err != nil {
				return err
			}

			tw := newTable(c.out)
			fmt.Fprintln(tw, "Date\tForecast")
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%.1f\n", p.Date, p.Value)
			}
			return tw.Flush()
		},
	})

	return cmd
}

func (c *cli) staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage the staff rota",
	}

	printShifts := func(shifts []models.StaffShift) error {
		if len(shifts) == 0 {
			fmt.Fprintln(c.out, "No shifts scheduled.")
			return nil
		}
		tw := newTable(c.out)
		fmt.Fprintln(tw, "#\tDate\tTime\tName\tRole")
		for i, sh := range shifts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, sh.Date, sh.Time, sh.Name, sh.Role)
		}
		return tw.Flush()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every shift on the rota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			shifts, err := s.Staff.List(cmd.Context())
			if err != nil {
				return err
			}
			return printShifts(shifts)
		},
	})

	var add staff.AddInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			sh, err := s.Staff.Add(cmd.Context(), add)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Scheduled %s (%s) on %s at %s.\n", sh.Name, sh.Role, sh.Date, sh.Time)
			return nil
		},
	}
	addCmd.Flags().StringVar(&add.Name, "name", "", "Staff member")
	addCmd.Flags().StringVar(&add.Date, "date", "", "Shift date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&add.Time, "time", "", "Shift start time (HH:MM)")
	addCmd.Flags().StringVar(&add.Role, "shift-role", "", "Chef, Waiter, Manager, Cleaner or Other")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the shift at index (as shown by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			sh, err := s.Staff.Delete(cmd.Context(), idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s on %s.\n", sh.Name, sh.Date)
			return nil
		},
	})

	var from, to string
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show shifts between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			shifts, err := s.Staff.Schedule(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return printShifts(shifts)
		},
	}
	scheduleCmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD)")
	scheduleCmd.Flags().StringVar(&to, "to", "", "Last date (YYYY-MM-DD)")
	_ = scheduleCmd.MarkFlagRequired("from")
	_ = scheduleCmd.MarkFlagRequired("to")
	cmd.AddCommand(scheduleCmd)

	return cmd
}

// parseDateFlag parses a YYYY-MM-DD flag value. An empty value is the
// zero date.
func parseDateFlag(name, value string) (models.Date, error) {
	if value == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, models.NewValidationError(name, "must be a date like 2024-01-31")
	}
	return d, nil
}
