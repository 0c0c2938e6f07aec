package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/seed"
	"github.com/bistro-ops/bistro/internal/session"
	"github.com/bistro-ops/bistro/internal/util"
)

func (c *cli) seedCmd() *cobra.Command {
	var (
		days  int
		force bool
		rng   int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo collections and a transaction dataset",
		Long: `Seed writes a demo menu, inventory, waste log and staff rota into the
data directory and a transaction dataset ending yesterday at
storage.dataset_path. Existing records are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := config.EnsureDataDir(c.cfg)
			if err != nil {
				return err
			}

			sc := seed.DefaultConfig(models.DateOf(util.SystemClock{}.Now()))
			sc.Force = force
			if days > 0 {
				sc.Days = days
			}
			if rng != 0 {
				sc.RandomSeed = rng
			}

			slog.Info("generating seed data", "data_dir", dataDir, "dataset", c.cfg.Storage.DatasetPath, "days", sc.Days)
			sum, err := seed.NewGenerator(dataDir, c.cfg.Storage.DatasetPath, sc).Generate(cmd.Context())
			if err != nil {
				return fmt.Errorf("generating seed data: %w", err)
			}

			fmt.Fprintf(c.out, "Seeded %d transactions, %d menu items, %d inventory items, %d waste entries and %d shifts.\n",
				sum.Transactions, sum.Menu, sum.Inventory, sum.Waste, sum.Shifts)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Days of transaction history (default 90)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite collections that already hold records")
	cmd.Flags().Int64Var(&rng, "random-seed", 0, "Random seed for repeatable data")
	return cmd
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reset <collection>",
		Short:     "Move a collection file aside so it starts empty",
		Long:      "Reset renames a collection file, typically one that no longer parses, to a timestamped backup.\nCollections: " + strings.Join(session.Collections(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: session.Collections(),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			backup, err := session.ResetCollection(deps, args[0])
			if err != nil {
				return err
			}
			if backup == "" {
				fmt.Fprintf(c.out, "%s has no file; nothing to reset.\n", args[0])
				return nil
			}
			fmt.Fprintf(c.out, "Moved %s aside to %s.\n", args[0], backup)
			return nil
		},
	}
}

func (c *cli) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the database, dataset and collection files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			diag, err := session.Diagnose(cmd.Context(), deps)
			if err != nil {
				return err
			}

			tw := newTable(c.out)
			fmt.Fprintf(tw, "Config\t%s\n", c.cfgPath)
			fmt.Fprintf(tw, "Data directory\t%s\n", diag.DataDir)
			fmt.Fprintf(tw, "Database\t%s\n", diag.Database)
			if diag.Recovery != "" {
				fmt.Fprintf(tw, "Recovery\t%s\n", diag.Recovery)
			}
			dbState := "ok"
			if diag.DBErr != nil {
				dbState = diag.DBErr.Error()
			}
			fmt.Fprintf(tw, "Database check\t%s\n", dbState)
			for _, m := range diag.Migrations {
				state := "pending"
				if m.Applied {
					state = "applied"
				}
				fmt.Fprintf(tw, "Migration %03d\t%s\t%s\n", m.Version, m.Description, state)
			}
			if diag.Transactions > 0 {
				fmt.Fprintf(tw, "Dataset\t%s\t%d rows, %s to %s\n", diag.DatasetPath, diag.Transactions, diag.First, diag.Last)
			} else {
				fmt.Fprintf(tw, "Dataset\t%s\tno rows\n", diag.DatasetPath)
			}
			for _, col := range diag.Collections {
				state := fmt.Sprintf("%d records", col.Records)
				if col.Err != nil {
					state = "corrupt"
				}
				fmt.Fprintf(tw, "Collection %s\t%s\t%s\n", col.Name, col.Path, state)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			problems := diag.Problems()
			if len(problems) == 0 {
				fmt.Fprintln(c.out, "No problems found.")
				return nil
			}
			return problems[0]
		},
	}
}
