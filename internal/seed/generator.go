package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bistro-ops/bistro/internal/dataset"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/inventory"
	"github.com/bistro-ops/bistro/internal/services/menu"
	"github.com/bistro-ops/bistro/internal/services/staff"
	"github.com/bistro-ops/bistro/internal/services/waste"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/util"
)

// Config configures the generator.
type Config struct {
	// Today anchors the generated history, which ends the day before.
	Today      models.Date
	Days       int
	WasteDays  int
	RotaDays   int
	RandomSeed int64

	// Force overwrites collections that already hold records.
	Force bool
}

// DefaultConfig returns ninety days of history ending yesterday.
func DefaultConfig(today models.Date) Config {
	return Config{
		Today:      today,
		Days:       90,
		WasteDays:  21,
		RotaDays:   7,
		RandomSeed: 1984,
	}
}

// Summary counts what was written.
type Summary struct {
	Transactions int
	Menu         int
	Inventory    int
	Waste        int
	Shifts       int
}

// Generator writes demonstration collections and a transaction dataset.
type Generator struct {
	dataDir     string
	datasetPath string
	cfg         Config
	rng         *rand.Rand
	ids         util.IDSource
}

// NewGenerator creates a generator writing collections to dataDir and the
// dataset CSV to datasetPath.
func NewGenerator(dataDir, datasetPath string, cfg Config) *Generator {
	return &Generator{
		dataDir:     dataDir,
		datasetPath: datasetPath,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.RandomSeed)),
		ids:         util.NewSequenceIDs(cfg.RandomSeed),
	}
}

// Generate writes every collection and the dataset.
func (g *Generator) Generate(ctx context.Context) (Summary, error) {
	slog.Info("starting seed data generation", "days", g.cfg.Days, "data_dir", g.dataDir)

	var sum Summary
	var err error

	menuStore := store.New[models.MenuItem](g.dataDir, menu.CollectionName)
	invStore := store.New[models.InventoryItem](g.dataDir, inventory.CollectionName)
	wasteStore := store.New[models.WasteEntry](g.dataDir, waste.CollectionName)
	rotaStore := store.New[models.StaffShift](g.dataDir, staff.CollectionName)

	if !g.cfg.Force {
		for _, check := range []func() (int, error){
			countOf(menuStore), countOf(invStore), countOf(wasteStore), countOf(rotaStore),
		} {
			n, err := check()
			if err != nil {
				return sum, err
			}
			if n > 0 {
				return sum, fmt.Errorf("data directory %s already has records, use force to overwrite", g.dataDir)
			}
		}
	}

	if sum.Transactions, err = g.writeDataset(); err != nil {
		return sum, fmt.Errorf("generating dataset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	menuItems := g.menu()
	if err := menuStore.Save(menuItems); err != nil {
		return sum, fmt.Errorf("generating menu: %w", err)
	}
	sum.Menu = len(menuItems)

	stock := g.inventory()
	if err := invStore.Save(stock); err != nil {
		return sum, fmt.Errorf("generating inventory: %w", err)
	}
	sum.Inventory = len(stock)

	entries := g.waste()
	if err := wasteStore.Save(entries); err != nil {
		return sum, fmt.Errorf("generating waste log: %w", err)
	}
	sum.Waste = len(entries)

	shifts := g.rota()
	if err := rotaStore.Save(shifts); err != nil {
		return sum, fmt.Errorf("generating rota: %w", err)
	}
	sum.Shifts = len(shifts)

	slog.Info("seed data generation complete",
		"transactions", sum.Transactions,
		"menu", sum.Menu,
		"inventory", sum.Inventory,
		"waste", sum.Waste,
		"shifts", sum.Shifts,
	)
	return sum, nil
}

func countOf[T any](st *store.Store[T]) func() (int, error) {
	return func() (int, error) {
		records, err := st.Load()
		return len(records), err
	}
}

func (g *Generator) writeDataset() (int, error) {
	start := g.cfg.Today.AddDays(-g.cfg.Days)
	rows := make([]models.Transaction, 0, g.cfg.Days)

	for i := 0; i < g.cfg.Days; i++ {
		day := start.AddDays(i)
		rows = append(rows, g.transaction(day, i))
	}

	if dir := filepath.Dir(g.datasetPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return 0, err
		}
	}
	f, err := os.Create(g.datasetPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := dataset.Write(f, rows); err != nil {
		return 0, err
	}
	return len(rows), f.Sync()
}

// transaction builds one day with weekend uplift, slow growth and noise.
func (g *Generator) transaction(day models.Date, i int) models.Transaction {
	base := 3200.0
	switch day.Weekday() {
	case time.Friday, time.Saturday:
		base *= 1.45
	case time.Sunday:
		base *= 1.2
	case time.Monday:
		base *= 0.8
	}
	base *= 1 + float64(i)*0.002
	revenue := round2(base * (0.9 + g.rng.Float64()*0.2))

	food := round2(revenue * (0.24 + g.rng.Float64()*0.1))
	labor := round2(revenue * (0.25 + g.rng.Float64()*0.05))
	utilities := round2(180 + g.rng.Float64()*60)
	misc := round2(60 + g.rng.Float64()*90)
	expenses := round2(food + labor + utilities + misc)

	dish := Dishes[g.rng.Intn(len(Dishes))]
	return models.Transaction{
		Date:          day,
		Revenue:       revenue,
		TotalExpenses: expenses,
		NetProfit:     round2(revenue - expenses),
		FoodCosts:     food,
		LaborCosts:    labor,
		Utilities:     utilities,
		Miscellaneous: misc,
		Category:      dish.Category,
		Item:          dish.Name,
	}
}

func (g *Generator) menu() []models.MenuItem {
	items := make([]models.MenuItem, len(Dishes))
	for i, d := range Dishes {
		items[i] = models.MenuItem{
			ID:          g.ids.NewID(),
			Name:        d.Name,
			Price:       d.Price,
			Description: d.Description,
		}
	}
	return items
}

func (g *Generator) inventory() []models.InventoryItem {
	items := make([]models.InventoryItem, len(Ingredients))
	for i, name := range Ingredients {
		item := models.InventoryItem{
			Item:       name,
			Quantity:   g.rng.Intn(60),
			Expiration: g.cfg.Today.AddDays(g.rng.Intn(40) - 3),
		}
		item.Normalize()
		items[i] = item
	}
	return items
}

func (g *Generator) waste() []models.WasteEntry {
	reasons := models.WasteReasons()
	var entries []models.WasteEntry
	for d := g.cfg.WasteDays; d >= 1; d-- {
		day := g.cfg.Today.AddDays(-d)
		for n := 1 + g.rng.Intn(3); n > 0; n-- {
			entries = append(entries, models.WasteEntry{
				ID:       g.ids.NewID(),
				Item:     Ingredients[g.rng.Intn(len(Ingredients))],
				Quantity: 1 + g.rng.Intn(6),
				Reason:   reasons[g.rng.Intn(len(reasons))],
				Date:     day,
			})
		}
	}
	return entries
}

func (g *Generator) rota() []models.StaffShift {
	type post struct {
		role  models.StaffRole
		times []string
	}
	posts := []post{
		{models.StaffRoleChef, []string{"07:00", "15:00"}},
		{models.StaffRoleWaiter, []string{"11:00", "17:00"}},
		{models.StaffRoleWaiter, []string{"11:00", "17:00"}},
		{models.StaffRoleManager, []string{"10:00"}},
		{models.StaffRoleCleaner, []string{"22:00"}},
	}

	team := make([]string, 12)
	for i := range team {
		team[i] = GivenNames[g.rng.Intn(len(GivenNames))] + " " + Surnames[g.rng.Intn(len(Surnames))]
	}

	var shifts []models.StaffShift
	for d := 0; d < g.cfg.RotaDays; d++ {
		day := g.cfg.Today.AddDays(d)
		for _, p := range posts {
			for _, at := range p.times {
				shifts = append(shifts, models.StaffShift{
					ID:   g.ids.NewID(),
					Name: team[g.rng.Intn(len(team))],
					Date: day,
					Time: at,
					Role: p.role,
				})
			}
		}
	}
	return shifts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
