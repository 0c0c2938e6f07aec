// Package config provides configuration management for bistro.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bistro-ops/bistro/internal/access"
)

// Config holds the complete application configuration.
type Config struct {
	Restaurant   RestaurantConfig   `toml:"restaurant"`
	Storage      StorageConfig      `toml:"storage"`
	Database     DatabaseConfig     `toml:"database"`
	Alerts       AlertsConfig       `toml:"alerts"`
	Notification NotificationConfig `toml:"notification"`
	Analytics    AnalyticsConfig    `toml:"analytics"`
	Health       HealthConfig       `toml:"health"`
	Access       AccessConfig       `toml:"access"`
	Display      DisplayConfig      `toml:"display"`
	Logging      LoggingConfig      `toml:"logging"`
	Metrics      MetricsConfig      `toml:"metrics"`
}

// RestaurantConfig identifies the business in headers and reports.
type RestaurantConfig struct {
	Name     string `toml:"name"`
	Currency string `toml:"currency"`
}

// StorageConfig locates the JSON collections and the transaction dataset.
type StorageConfig struct {
	DataDir     string `toml:"data_dir"`
	DatasetPath string `toml:"dataset_path"`
}

// DatabaseConfig controls the SQLite database holding the imported dataset
// and the notification history. An empty path keeps everything in memory.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AlertsConfig controls the restocking and expiry rules.
type AlertsConfig struct {
	ExpiryWindowDays int    `toml:"expiry_window_days"`
	Recipient        string `toml:"recipient"`
}

// NotificationConfig configures the SMTP transport for alert digests.
type NotificationConfig struct {
	SMTPHost    string `toml:"smtp_host"`
	SMTPPort    int    `toml:"smtp_port"`
	Username    string `toml:"username"`
	PasswordEnv string `toml:"password_env"`
	From        string `toml:"from"`
}

// Enabled reports whether an SMTP host has been configured.
func (n *NotificationConfig) Enabled() bool {
	return strings.TrimSpace(n.SMTPHost) != ""
}

// WeekAnchor selects which date defines the "current" week in
// week-over-week comparisons.
type WeekAnchor string

const (
	// WeekAnchorRangeEnd uses the last date of the filtered range.
	WeekAnchorRangeEnd WeekAnchor = "range_end"
	// WeekAnchorWallClock uses today's date.
	WeekAnchorWallClock WeekAnchor = "wall_clock"
)

// AnalyticsConfig tunes the dashboard statistics.
type AnalyticsConfig struct {
	AnomalyZThreshold   float64    `toml:"anomaly_z_threshold"`
	MinAnomalySample    int        `toml:"min_anomaly_sample"`
	ForecastHorizonDays int        `toml:"forecast_horizon_days"`
	WasteMinDays        int        `toml:"waste_min_days"`
	WeekAnchor          WeekAnchor `toml:"week_anchor"`
	FoodCostRatio       float64    `toml:"food_cost_ratio"`
	TopItems            int        `toml:"top_items"`
}

// HealthPolicy selects how business-health thresholds are derived.
type HealthPolicy string

const (
	// HealthPolicyFixed compares against configured constants.
	HealthPolicyFixed HealthPolicy = "fixed"
	// HealthPolicyRelative compares against the range mean plus or minus a margin.
	HealthPolicyRelative HealthPolicy = "relative"
)

// HealthConfig holds the business-health thresholds.
type HealthConfig struct {
	Policy         HealthPolicy `toml:"policy"`
	RevenueTarget  float64      `toml:"revenue_target"`
	ExpenseLimit   float64      `toml:"expense_limit"`
	RelativeMargin float64      `toml:"relative_margin"`
}

// AccessConfig sets the role used when none is given on the command line.
type AccessConfig struct {
	DefaultRole string `toml:"default_role"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	DateFormat  string      `toml:"date_format"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeBistro ColorScheme = "bistro"
	ColorSchemeMono   ColorScheme = "mono"
	ColorSchemeHigh   ColorScheme = "high_contrast"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}

	if err := c.Alerts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("alerts: %w", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("notification: %w", err))
	}

	if err := c.Analytics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("analytics: %w", err))
	}

	if err := c.Health.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("health: %w", err))
	}

	if c.Access.DefaultRole != "" {
		if _, err := access.ParseRole(c.Access.DefaultRole); err != nil {
			errs = append(errs, fmt.Errorf("access: %w", err))
		}
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the storage configuration is valid.
func (s *StorageConfig) Validate() error {
	if strings.TrimSpace(s.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	return nil
}

// Validate checks that the alert configuration is valid.
func (a *AlertsConfig) Validate() error {
	var errs []error

	if a.ExpiryWindowDays < 0 {
		errs = append(errs, errors.New("expiry_window_days must be non-negative"))
	}

	if a.Recipient != "" {
		if _, err := mail.ParseAddress(a.Recipient); err != nil {
			errs = append(errs, fmt.Errorf("invalid recipient: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the notification configuration is valid.
func (n *NotificationConfig) Validate() error {
	if !n.Enabled() {
		return nil
	}

	var errs []error

	if n.SMTPPort < 1 || n.SMTPPort > 65535 {
		errs = append(errs, errors.New("smtp_port must be between 1 and 65535"))
	}

	if _, err := mail.ParseAddress(n.From); err != nil {
		errs = append(errs, fmt.Errorf("invalid from address: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the analytics configuration is valid.
func (a *AnalyticsConfig) Validate() error {
	var errs []error

	if a.AnomalyZThreshold <= 0 {
		errs = append(errs, errors.New("anomaly_z_threshold must be positive"))
	}

	if a.MinAnomalySample < 2 {
		errs = append(errs, errors.New("min_anomaly_sample must be at least 2"))
	}

	if a.ForecastHorizonDays < 1 {
		errs = append(errs, errors.New("forecast_horizon_days must be positive"))
	}

	if a.WasteMinDays < 2 {
		errs = append(errs, errors.New("waste_min_days must be at least 2"))
	}

	validAnchors := map[WeekAnchor]bool{
		WeekAnchorRangeEnd:  true,
		WeekAnchorWallClock: true,
	}

	if !validAnchors[a.WeekAnchor] && a.WeekAnchor != "" {
		errs = append(errs, fmt.Errorf("invalid week_anchor: %s", a.WeekAnchor))
	}

	if a.FoodCostRatio <= 0 || a.FoodCostRatio > 1 {
		errs = append(errs, errors.New("food_cost_ratio must be in (0, 1]"))
	}

	if a.TopItems < 0 {
		errs = append(errs, errors.New("top_items must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the health configuration is valid.
func (h *HealthConfig) Validate() error {
	var errs []error

	switch h.Policy {
	case HealthPolicyFixed:
		if h.RevenueTarget < 0 {
			errs = append(errs, errors.New("revenue_target must be non-negative"))
		}
		if h.ExpenseLimit < 0 {
			errs = append(errs, errors.New("expense_limit must be non-negative"))
		}
	case HealthPolicyRelative:
		if h.RelativeMargin < 0 || h.RelativeMargin >= 1 {
			errs = append(errs, errors.New("relative_margin must be in [0, 1)"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid policy: %q", h.Policy))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	validSchemes := map[ColorScheme]bool{
		ColorSchemeBistro: true,
		ColorSchemeMono:   true,
		ColorSchemeHigh:   true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		return fmt.Errorf("invalid color_scheme: %s", d.ColorScheme)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// DefaultRole returns the configured default role, or Staff.
func (c *Config) DefaultRole() access.Role {
	if r, err := access.ParseRole(c.Access.DefaultRole); err == nil {
		return r
	}
	return access.RoleStaff
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Restaurant: RestaurantConfig{
			Name:     "Bistro",
			Currency: "$",
		},
		Storage: StorageConfig{
			DataDir:     "data",
			DatasetPath: "restaurant_dataset.csv",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Alerts: AlertsConfig{
			ExpiryWindowDays: 7,
		},
		Notification: NotificationConfig{
			SMTPPort:    587,
			PasswordEnv: "BISTRO_SMTP_PASSWORD",
		},
		Analytics: AnalyticsConfig{
			AnomalyZThreshold:   2.0,
			MinAnomalySample:    6,
			ForecastHorizonDays: 7,
			WasteMinDays:        6,
			WeekAnchor:          WeekAnchorRangeEnd,
			FoodCostRatio:       0.3,
			TopItems:            5,
		},
		Health: HealthConfig{
			Policy:         HealthPolicyRelative,
			RevenueTarget:  5000,
			ExpenseLimit:   4000,
			RelativeMargin: 0.10,
		},
		Access: AccessConfig{
			DefaultRole: string(access.RoleStaff),
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeBistro,
			DateFormat:  "2006-01-02",
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/bistro.log",
		},
	}
}
