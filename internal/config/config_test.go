package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bistro-ops/bistro/internal/access"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Missing data dir", func(c *Config) { c.Storage.DataDir = "" }, "data_dir is required"},
		{"Negative expiry window", func(c *Config) { c.Alerts.ExpiryWindowDays = -1 }, "expiry_window_days"},
		{"Bad recipient", func(c *Config) { c.Alerts.Recipient = "not an address" }, "invalid recipient"},
		{"SMTP without from", func(c *Config) { c.Notification.SMTPHost = "mail.example.com" }, "invalid from address"},
		{"Zero z threshold", func(c *Config) { c.Analytics.AnomalyZThreshold = 0 }, "anomaly_z_threshold"},
		{"Unknown anchor", func(c *Config) { c.Analytics.WeekAnchor = "fiscal" }, "invalid week_anchor"},
		{"Unknown policy", func(c *Config) { c.Health.Policy = "vibes" }, "invalid policy"},
		{"Margin too large", func(c *Config) { c.Health.RelativeMargin = 1.5 }, "relative_margin"},
		{"Unknown role", func(c *Config) { c.Access.DefaultRole = "Sommelier" }, "access"},
		{"Unknown color scheme", func(c *Config) { c.Display.ColorScheme = "neon" }, "invalid color_scheme"},
		{"Unknown log level", func(c *Config) { c.Logging.Level = "chatty" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = ""
	cfg.Logging.Level = "chatty"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"storage:", "logging:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, missing %q", err, want)
		}
	}
}

func TestDefaultRole(t *testing.T) {
	cfg := Default()
	if got := cfg.DefaultRole(); got != access.RoleStaff {
		t.Errorf("DefaultRole() = %v, want Staff", got)
	}
	cfg.Access.DefaultRole = "owner"
	if got := cfg.DefaultRole(); got != access.RoleOwner {
		t.Errorf("DefaultRole() = %v, want Owner", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bistro.toml")

	cfg := Default()
	cfg.Restaurant.Name = "Chez Test"
	cfg.Health.Policy = HealthPolicyFixed
	cfg.Health.RevenueTarget = 1234
	cfg.Analytics.WeekAnchor = WeekAnchorWallClock

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, from, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if from != path {
		t.Errorf("Load() path = %q, want %q", from, path)
	}
	if loaded.Restaurant.Name != "Chez Test" {
		t.Errorf("Restaurant.Name = %q", loaded.Restaurant.Name)
	}
	if loaded.Health.Policy != HealthPolicyFixed || loaded.Health.RevenueTarget != 1234 {
		t.Errorf("Health = %+v", loaded.Health)
	}
	if loaded.Analytics.WeekAnchor != WeekAnchorWallClock {
		t.Errorf("WeekAnchor = %q", loaded.Analytics.WeekAnchor)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bistro.toml")
	content := "[alerts]\nexpiry_window_days = 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, _, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Alerts.ExpiryWindowDays != 3 {
		t.Errorf("ExpiryWindowDays = %d, want 3", cfg.Alerts.ExpiryWindowDays)
	}
	if cfg.Analytics.AnomalyZThreshold != 2.0 {
		t.Errorf("AnomalyZThreshold = %v, want default 2.0", cfg.Analytics.AnomalyZThreshold)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Malformed TOML", "[alerts\n", "parsing TOML"},
		{"Unknown key", "[alerts]\nexpiry_days = 3\n", "unknown keys"},
		{"Invalid value", "[health]\npolicy = \"vibes\"\n", "validating config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bistro.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("setup: %v", err)
			}

			_, _, err := Load(path, false)
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error = %v, want *LoadError", err)
			}
			if le.Path != path {
				t.Errorf("LoadError.Path = %q, want %q", le.Path, path)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	_, from, err := Load("", false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if from != path {
		t.Errorf("Load() path = %q, want %q", from, path)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	got, err := DatabasePath(cfg)
	if err != nil || got != "" {
		t.Errorf("DatabasePath(default) = %q, %v; want in-memory", got, err)
	}

	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "bistro.db")
	got, err = DatabasePath(cfg)
	if err != nil {
		t.Fatalf("DatabasePath() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}
