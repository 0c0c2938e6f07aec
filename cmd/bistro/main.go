// Bistro: restaurant back office.
//
// Menu, inventory, waste log and staff rota management with expiry
// alerts and business analytics over the daily transaction dataset.
// Running bistro with no command opens the terminal dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/session"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/tui"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes for failures a script may want to tell apart.
const (
	exitError      = 1
	exitValidation = 2
	exitCorrupt    = 3
	exitDenied     = 4
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(exitError)
		})
	}()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(exitCode(err))
	}
}

// execute runs one command line and releases everything it opened.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	c := &cli{out: out, errOut: errOut}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

// cli carries the global flags and the resources opened for a command.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	roleName   string
	debug      bool

	cfg     *config.Config
	cfgPath string
	role    access.Role
	logFile *os.File
	deps    *session.Deps
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bistro",
		Short: "Restaurant back office",
		Long: `Bistro manages a restaurant's menu, inventory, waste log and staff rota,
raises low stock and expiry alerts, and reports on the daily transaction
dataset.

Run without a command to open the terminal dashboard.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDashboard(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (TOML)")
	cmd.PersistentFlags().StringVarP(&c.roleName, "role", "r", "", "Session role: Owner, Manager or Staff (default from config)")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Open the terminal dashboard",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runDashboard(cmd.Context())
			},
		},
		c.menuCmd(),
		c.inventoryCmd(),
		c.wasteCmd(),
		c.staffCmd(),
		c.alertsCmd(),
		c.reportCmd(),
		c.analyticsCmd(),
		c.seedCmd(),
		c.resetCmd(),
		c.doctorCmd(),
		c.versionCmd(),
	)

	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config or logging needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "bistro version %s (built %s)\n", Version, BuildTime)
		},
	}
}

// setup loads configuration, installs the default logger and resolves
// the session role.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := config.Load(c.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	c.cfg = cfg
	c.cfgPath = cfgPath

	logLevel := slog.LevelInfo
	if c.debug {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	var logHandler slog.Handler
	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		c.logFile = logFile

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		logHandler = slog.NewTextHandler(c.errOut, &slog.HandlerOptions{
			Level: logLevel,
		})
	}
	slog.SetDefault(slog.New(logHandler))

	c.role = cfg.DefaultRole()
	if c.roleName != "" {
		role, err := access.ParseRole(c.roleName)
		if err != nil {
			return err
		}
		c.role = role
	}

	slog.Debug("bistro starting",
		"version", Version,
		"command", cmd.CommandPath(),
		"config_path", cfgPath,
		"role", c.role,
	)
	return nil
}

// open returns the process dependencies, opening them on first use.
func (c *cli) open(ctx context.Context) (*session.Deps, error) {
	if c.deps != nil {
		return c.deps, nil
	}
	deps, err := session.Open(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	c.deps = deps
	return deps, nil
}

// session builds a session for the resolved role.
func (c *cli) session(ctx context.Context) (*session.Session, error) {
	deps, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	return session.New(deps, c.role), nil
}

func (c *cli) close() {
	if c.deps != nil {
		if err := c.deps.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
		c.deps = nil
	}
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
	}
}

func (c *cli) runDashboard(ctx context.Context) error {
	deps, err := c.open(ctx)
	if err != nil {
		return err
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	slog.Info("starting TUI", "restaurant", c.cfg.Restaurant.Name, "role", c.role)
	if err := tui.Run(ctx, deps, c.role); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	slog.Info("bistro shutdown complete")
	return nil
}

// hintFor suggests a next step for errors the user can fix.
func hintFor(err error) string {
	var corrupt *store.CorruptDataError
	switch {
	case errors.As(err, &corrupt):
		return fmt.Sprintf("Run `bistro reset %s` to move the file aside and start the collection empty.", corrupt.Collection)
	case errors.Is(err, models.ErrPermissionDenied):
		return "Use --role or access.default_role to choose a role with access."
	}
	return ""
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, models.ErrCorruptData):
		return exitCorrupt
	case errors.Is(err, models.ErrPermissionDenied):
		return exitDenied
	case errors.Is(err, models.ErrValidation):
		return exitValidation
	}
	return exitError
}
