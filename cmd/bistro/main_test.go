package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro-ops/bistro/internal/dataset"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/testutil"
)

type env struct {
	dir    string
	config string
}

// newEnv writes a config pointing at a temp data directory and database
// with file logging off. days of transactions ending on testutil.Today are written
// when days > 0.
func newEnv(t *testing.T, days int) *env {
	t.Helper()
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "restaurant_dataset.csv")

	cfg := fmt.Sprintf(`[storage]
data_dir = %q
dataset_path = %q

[database]
path = %q

[access]
default_role = "Owner"

[logging]
level = "warn"
file = ""
`, filepath.Join(dir, "data"), datasetPath, filepath.Join(dir, "bistro.db"))

	path := filepath.Join(dir, "bistro.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	if days > 0 {
		revenues := make([]float64, days)
		for i := range revenues {
			revenues[i] = 1000 + float64(i%7)*50
		}
		f, err := os.Create(datasetPath)
		require.NoError(t, err)
		require.NoError(t, dataset.Write(f, testutil.FixtureTransactions(testutil.Today.AddDays(-(days-1)), revenues...)))
		require.NoError(t, f.Close())
	}

	return &env{dir: dir, config: path}
}

// run executes bistro with args against the env config and returns stdout.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), append([]string{"--config", e.config}, args...), &out, &errOut)
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "bistro %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	// Version must work without any configuration.
	require.NoError(t, execute(context.Background(), []string{"version", "--config", "/nonexistent/bistro.toml"}, &out, &out))
	assert.Contains(t, out.String(), "bistro version dev")
}

func TestMenuCommands(t *testing.T) {
	e := newEnv(t, 0)

	assert.Contains(t, e.mustRun(t, "menu", "list"), "No menu items.")

	out := e.mustRun(t, "menu", "add", "--name", "Risotto", "--price", "14.5", "--description", "Mushroom")
	assert.Contains(t, out, "Added Risotto at $14.50.")
	e.mustRun(t, "menu", "add", "--name", "Tiramisu", "--price", "7")

	out = e.mustRun(t, "menu", "list")
	assert.Contains(t, out, "Risotto")
	assert.Contains(t, out, "Tiramisu")

	out = e.mustRun(t, "menu", "delete", "0")
	assert.Contains(t, out, "Deleted Risotto.")
	assert.NotContains(t, e.mustRun(t, "menu", "list"), "Risotto")
}

func TestMenuValidation(t *testing.T) {
	e := newEnv(t, 0)

	_, err := e.run(t, "menu", "add", "--name", "Soup", "--price", "cheap")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, exitValidation, exitCode(err))

	_, err = e.run(t, "menu", "delete", "first")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = e.run(t, "menu", "delete", "3")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, exitError, exitCode(err))
}

func TestInventoryAndAlerts(t *testing.T) {
	e := newEnv(t, 0)

	out := e.mustRun(t, "inventory", "add", "--item", "Flour", "--quantity", "5", "--expiration", "2030-01-01")
	assert.Contains(t, out, "Added Flour: 5 (Low Stock).")

	out = e.mustRun(t, "alerts", "list")
	assert.Contains(t, out, "Low stock: Flour has only 5 left")

	out = e.mustRun(t, "inventory", "update", "Flour", "--quantity", "40")
	assert.Contains(t, out, "Updated Flour: 40 (Good Stock)")
	assert.Contains(t, e.mustRun(t, "alerts", "list"), "No alerts.")

	out = e.mustRun(t, "inventory", "delete", "Flour")
	assert.Contains(t, out, "Deleted 1 entries for Flour.")
	assert.Contains(t, e.mustRun(t, "inventory", "list"), "No inventory items.")
}

func TestAlertsSendWithoutRecipient(t *testing.T) {
	e := newEnv(t, 0)
	e.mustRun(t, "inventory", "add", "--item", "Milk", "--quantity", "0", "--expiration", "2030-01-01")

	out := e.mustRun(t, "alerts", "send")
	assert.Contains(t, out, "No recipient")

	out = e.mustRun(t, "alerts", "history")
	assert.Contains(t, out, "no_destination")
}

func TestWasteCommands(t *testing.T) {
	e := newEnv(t, 0)

	out := e.mustRun(t, "waste", "add", "--item", "Bread", "--quantity", "3", "--reason", "Spoiled", "--date", "2024-06-14")
	assert.Contains(t, out, "Logged 3 Bread (Spoiled) on 2024-06-14.")

	out = e.mustRun(t, "waste", "list")
	assert.Contains(t, out, "Bread")
	assert.Contains(t, out, "Reason")

	_, err := e.run(t, "waste", "forecast")
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestStaffCommands(t *testing.T) {
	e := newEnv(t, 0)

	e.mustRun(t, "staff", "add", "--name", "Ana", "--date", "2024-06-15", "--time", "09:00", "--shift-role", "Chef")
	e.mustRun(t, "staff", "add", "--name", "Ben", "--date", "2024-06-20", "--time", "17:00", "--shift-role", "Waiter")

	out := e.mustRun(t, "staff", "schedule", "--from", "2024-06-14", "--to", "2024-06-16")
	assert.Contains(t, out, "Ana")
	assert.NotContains(t, out, "Ben")

	_, err := e.run(t, "staff", "schedule", "--from", "2024-06-20", "--to", "2024-06-10")
	assert.ErrorIs(t, err, models.ErrInvalidRange)
	assert.Equal(t, exitValidation, exitCode(err))

	out = e.mustRun(t, "staff", "delete", "1")
	assert.Contains(t, out, "Deleted Ben on 2024-06-20.")
}

func TestRoleDenied(t *testing.T) {
	e := newEnv(t, 0)

	_, err := e.run(t, "--role", "Staff", "menu", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
	assert.Equal(t, exitDenied, exitCode(err))
	assert.NotEmpty(t, hintFor(err))

	// Staff may still track inventory.
	e.mustRun(t, "--role", "staff", "inventory", "list")

	_, err = e.run(t, "--role", "Sommelier", "inventory", "list")
	assert.ErrorContains(t, err, "unknown role")
}

func TestCorruptCollectionAndReset(t *testing.T) {
	e := newEnv(t, 0)
	dataDir := filepath.Join(e.dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "staff_rota.json"), []byte("{not json"), 0o600))

	_, err := e.run(t, "staff", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCorruptData)
	assert.Equal(t, exitCorrupt, exitCode(err))
	assert.Contains(t, hintFor(err), "bistro reset staff_rota")

	out := e.mustRun(t, "reset", "staff_rota")
	assert.Contains(t, out, "Moved staff_rota aside")
	assert.Contains(t, e.mustRun(t, "staff", "list"), "No shifts scheduled.")

	out = e.mustRun(t, "reset", "staff_rota")
	assert.Contains(t, out, "nothing to reset")

	_, err = e.run(t, "reset", "recipes")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReportCommands(t *testing.T) {
	e := newEnv(t, 3)

	out := e.mustRun(t, "report", "kpi")
	assert.Contains(t, out, "Days:")
	assert.Contains(t, out, "Revenue:")
	assert.Contains(t, out, "Net Profit")

	out = e.mustRun(t, "report", "kpi", "--from", testutil.Today.String(), "--to", testutil.Today.String())
	assert.Contains(t, out, fmt.Sprintf("%s to %s", testutil.Today, testutil.Today))

	_, err := e.run(t, "report", "kpi", "--from", "yesterday")
	assert.ErrorIs(t, err, models.ErrValidation)

	path := filepath.Join(e.dir, "export.csv")
	out = e.mustRun(t, "report", "export", "-o", path)
	assert.Contains(t, out, "Exported 3 days")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], dataset.Header[0]))
}

func TestReportDeniedForManager(t *testing.T) {
	e := newEnv(t, 3)

	_, err := e.run(t, "--role", "Manager", "analytics", "dashboard")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

func TestAnalyticsDashboard(t *testing.T) {
	e := newEnv(t, 21)

	out := e.mustRun(t, "analytics", "dashboard")
	assert.Contains(t, out, "Revenue:")
	assert.Contains(t, out, "Week of")
	assert.Contains(t, out, "Anomalies")
	assert.Contains(t, out, "Sales forecast")
	assert.Contains(t, out, "Health")
}

func TestAnalyticsDashboardWithoutData(t *testing.T) {
	e := newEnv(t, 0)

	out := e.mustRun(t, "analytics", "dashboard")
	assert.Contains(t, out, "No transaction data loaded")
}

func TestSeed(t *testing.T) {
	e := newEnv(t, 0)

	out := e.mustRun(t, "seed", "--days", "10", "--random-seed", "7")
	assert.Contains(t, out, "Seeded 10 transactions")

	assert.NotContains(t, e.mustRun(t, "menu", "list"), "No menu items.")
	assert.Contains(t, e.mustRun(t, "report", "kpi"), "Days:")

	_, err := e.run(t, "seed")
	assert.ErrorContains(t, err, "already has records")

	e.mustRun(t, "seed", "--force", "--days", "10")
}

func TestDoctor(t *testing.T) {
	e := newEnv(t, 3)
	e.mustRun(t, "menu", "add", "--name", "Risotto", "--price", "14.5")

	out := e.mustRun(t, "doctor")
	assert.Contains(t, out, "Database check")
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "3 rows")
	assert.Contains(t, out, "1 records")
	assert.Contains(t, out, "No problems found.")

	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "data", "waste_log.json"), []byte("nope"), 0o600))
	out, err := e.run(t, "doctor")
	assert.Contains(t, out, "corrupt")
	assert.ErrorIs(t, err, models.ErrCorruptData)
	assert.Equal(t, exitCorrupt, exitCode(err))
}
