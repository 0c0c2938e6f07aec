package session

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/alerts"
	"github.com/bistro-ops/bistro/internal/services/analytics"
	"github.com/bistro-ops/bistro/internal/services/inventory"
	"github.com/bistro-ops/bistro/internal/services/menu"
	"github.com/bistro-ops/bistro/internal/services/staff"
	"github.com/bistro-ops/bistro/internal/services/waste"
	"github.com/bistro-ops/bistro/internal/store"
)

// Session is the set of services available to one role for one
// interaction.
type Session struct {
	Authz     *access.Authorizer
	Menu      *menu.Service
	Inventory *inventory.Service
	Waste     *waste.Service
	Staff     *staff.Service
	Alerts    *alerts.Service
	Analytics *analytics.Service
}

// New builds a session for role over freshly opened stores.
func New(d *Deps, role access.Role) *Session {
	authz := access.For(role).OnDeny(func(r access.Role, f access.Feature) {
		d.Metrics.PermissionDenied(f.String())
		slog.Warn("permission denied", "role", r, "feature", f)
	})

	hook := store.WithSaveHook(d.Metrics.StoreWrite)
	inv := inventory.NewService(store.New[models.InventoryItem](d.DataDir, inventory.CollectionName, hook), authz)
	wst := waste.NewService(store.New[models.WasteEntry](d.DataDir, waste.CollectionName, hook), authz, d.Clock, d.IDs)

	return &Session{
		Authz:     authz,
		Menu:      menu.NewService(store.New[models.MenuItem](d.DataDir, menu.CollectionName, hook), authz, d.IDs),
		Inventory: inv,
		Waste:     wst,
		Staff:     staff.NewService(store.New[models.StaffShift](d.DataDir, staff.CollectionName, hook), authz, d.IDs),
		Alerts: alerts.NewService(inv, authz, alerts.Options{
			Notifier:   d.Notifier,
			History:    d.Notifications,
			Metrics:    d.Metrics,
			Clock:      d.Clock,
			IDs:        d.IDs,
			WindowDays: d.Config.Alerts.ExpiryWindowDays,
		}),
		Analytics: analytics.NewService(d.Transactions, wst, authz, d.Clock, Settings(d.Config)),
	}
}

// Role returns the session role.
func (s *Session) Role() access.Role {
	return s.Authz.Role()
}

// Settings maps the analytics and health configuration sections.
func Settings(cfg *config.Config) analytics.Settings {
	a := cfg.Analytics
	return analytics.Settings{
		ZThreshold:       a.AnomalyZThreshold,
		MinAnomalySample: a.MinAnomalySample,
		Horizon:          a.ForecastHorizonDays,
		WasteMinDays:     a.WasteMinDays,
		WeekAnchor:       analytics.WeekAnchor(a.WeekAnchor),
		FoodCostRatio:    a.FoodCostRatio,
		TopItems:         a.TopItems,
		Health: analytics.HealthPolicy{
			Mode:          analytics.HealthMode(cfg.Health.Policy),
			RevenueTarget: cfg.Health.RevenueTarget,
			ExpenseLimit:  cfg.Health.ExpenseLimit,
			Margin:        cfg.Health.RelativeMargin,
		},
	}
}

// Collections lists the collection names in display order.
func Collections() []string {
	return []string{menu.CollectionName, inventory.CollectionName, waste.CollectionName, staff.CollectionName}
}

// ResetCollection moves a collection file aside so the next load starts
// empty. It returns the backup path, or "" when there was no file.
func ResetCollection(d *Deps, name string) (string, error) {
	if !slices.Contains(Collections(), name) {
		return "", models.NewValidationError("collection", fmt.Sprintf("must be one of %v", Collections()))
	}
	backup, err := store.New[struct{}](d.DataDir, name).Reset()
	if err != nil {
		return "", err
	}
	if backup != "" {
		slog.Warn("collection reset", "collection", name, "backup", backup)
	}
	return backup, nil
}
