// Package inventory manages stocked items keyed by name.
//
// Update and Delete treat duplicate keys differently: Update changes only
// the first record with a matching name, Delete removes every match. Add
// refuses names that already exist, so duplicates only arise from files
// edited outside bistro.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/validate"
	"github.com/bistro-ops/bistro/internal/store"
)

// CollectionName is the inventory file name without extension.
const CollectionName = "inventory"

// Service provides inventory operations.
type Service struct {
	store *store.Store[models.InventoryItem]
	authz *access.Authorizer
	log   *slog.Logger
}

// NewService creates an inventory service.
func NewService(st *store.Store[models.InventoryItem], authz *access.Authorizer) *Service {
	return &Service{
		store: st,
		authz: authz,
		log:   slog.Default().With("component", "inventory"),
	}
}

// List returns all items in file order with Status recomputed.
func (s *Service) List(ctx context.Context) ([]models.InventoryItem, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return nil, err
	}
	return s.load()
}

// Snapshot returns the current items without a feature check. It backs
// the alert engine, which runs its own check.
func (s *Service) Snapshot() ([]models.InventoryItem, error) {
	return s.load()
}

func (s *Service) load() ([]models.InventoryItem, error) {
	items, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// Add validates input and appends a new item.
func (s *Service) Add(ctx context.Context, input AddInput) (models.InventoryItem, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return models.InventoryItem{}, err
	}

	name, err := validate.Text("Item", input.Item)
	if err != nil {
		return models.InventoryItem{}, err
	}
	qty, err := validate.Count("Quantity", input.Quantity)
	if err != nil {
		return models.InventoryItem{}, err
	}
	exp, err := validate.Date("Expiration", input.Expiration)
	if err != nil {
		return models.InventoryItem{}, err
	}

	item := models.InventoryItem{Item: name, Quantity: qty, Expiration: exp}
	item.Normalize()

	_, err = s.store.Update(func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		if indexOf(items, name) >= 0 {
			return nil, models.NewValidationError("Item", fmt.Sprintf("%q already exists", name))
		}
		return normalizeAll(append(items, item)), nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.log.Info("inventory item added", "item", name, "quantity", qty, "status", item.Status)
	return item, nil
}

// Update applies changes to the first item named key.
func (s *Service) Update(ctx context.Context, key string, input UpdateInput) (models.InventoryItem, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return models.InventoryItem{}, err
	}

	key = strings.TrimSpace(key)
	if strings.TrimSpace(input.Quantity) == "" && strings.TrimSpace(input.Expiration) == "" {
		return models.InventoryItem{}, models.NewValidationError("Quantity", "no changes given")
	}

	var qty *int
	if strings.TrimSpace(input.Quantity) != "" {
		n, err := validate.Count("Quantity", input.Quantity)
		if err != nil {
			return models.InventoryItem{}, err
		}
		qty = &n
	}

	var exp *models.Date
	if strings.TrimSpace(input.Expiration) != "" {
		d, err := validate.Date("Expiration", input.Expiration)
		if err != nil {
			return models.InventoryItem{}, err
		}
		exp = &d
	}

	var updated models.InventoryItem
	_, err := s.store.Update(func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		i := indexOf(items, key)
		if i < 0 {
			return nil, fmt.Errorf("inventory item %q: %w", key, models.ErrNotFound)
		}
		if n := countOf(items, key); n > 1 {
			s.log.Warn("duplicate inventory key, updating first match only", "item", key, "matches", n)
		}

		if qty != nil {
			items[i].Quantity = *qty
		}
		if exp != nil {
			items[i].Expiration = *exp
		}
		items = normalizeAll(items)
		updated = items[i]
		return items, nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.log.Info("inventory item updated", "item", key, "quantity", updated.Quantity, "status", updated.Status)
	return updated, nil
}

// Delete removes every item named key and returns how many were removed.
func (s *Service) Delete(ctx context.Context, key string) (int, error) {
	if err := s.authz.Authorize(access.FeatureInventoryTracking); err != nil {
		return 0, err
	}

	key = strings.TrimSpace(key)
	removed := 0
	_, err := s.store.Update(func(items []models.InventoryItem) ([]models.InventoryItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.Item == key {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		if removed == 0 {
			return nil, fmt.Errorf("inventory item %q: %w", key, models.ErrNotFound)
		}
		return normalizeAll(kept), nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("inventory item deleted", "item", key, "count", removed)
	return removed, nil
}

func indexOf(items []models.InventoryItem, key string) int {
	for i, it := range items {
		if it.Item == key {
			return i
		}
	}
	return -1
}

func countOf(items []models.InventoryItem, key string) int {
	n := 0
	for _, it := range items {
		if it.Item == key {
			n++
		}
	}
	return n
}

func normalizeAll(items []models.InventoryItem) []models.InventoryItem {
	for i := range items {
		items[i].Normalize()
	}
	return items
}
