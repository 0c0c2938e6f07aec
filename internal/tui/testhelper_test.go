package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/dataset"
	"github.com/bistro-ops/bistro/internal/session"
	"github.com/bistro-ops/bistro/internal/testutil"
	"github.com/bistro-ops/bistro/internal/util"
)

// newTestDeps opens Deps over a temporary data directory, an in-memory
// database and a three week dataset ending on testutil.Today. The clock
// is frozen at testutil.Now.
func newTestDeps(t *testing.T) *session.Deps {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Storage.DatasetPath = filepath.Join(dir, "restaurant_dataset.csv")

	revenues := make([]float64, 21)
	for i := range revenues {
		revenues[i] = 1000 + float64(i%7)*50
	}

	f, err := os.Create(cfg.Storage.DatasetPath)
	if err != nil {
		t.Fatalf("creating dataset: %v", err)
	}
	if err := dataset.Write(f, testutil.FixtureTransactions(testutil.Today.AddDays(-20), revenues...)); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	f.Close()

	deps, err := session.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("opening session deps: %v", err)
	}
	t.Cleanup(func() { deps.Close() })

	deps.Clock = util.NewFixedClock(testutil.Now)
	return deps
}

// newTestApp creates an Owner App with the window set to 120x40 and
// marked ready. Nothing is loaded until a test runs a command.
func newTestApp(t *testing.T) *App {
	t.Helper()
	return newTestAppFor(t, access.RoleOwner)
}

func newTestAppFor(t *testing.T, role access.Role) *App {
	t.Helper()

	app := New(newTestDeps(t), role)
	app.width = 120
	app.height = 40
	app.ready = true
	return app
}

// run executes cmd and feeds every resulting message back into app until
// no commands remain. Batches are expanded; quit messages are dropped.
func run(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("command chain did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := app.Update(msg)
			queue = append(queue, follow)
		}
	}
}

// press sends a key to app and runs whatever it triggers.
func press(t *testing.T, app *App, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := app.Update(msg)
	run(t, app, cmd)
}

// typeText presses each rune of s.
func typeText(t *testing.T, app *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, app, keyMsg(string(r)))
	}
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}
