// Package menu manages the restaurant menu collection.
package menu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/validate"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/util"
)

// CollectionName is the menu file name without extension.
const CollectionName = "menu_items"

// Service provides menu operations. Items are never edited in place; they
// are added, or removed by position.
type Service struct {
	store *store.Store[models.MenuItem]
	authz *access.Authorizer
	ids   util.IDSource
	log   *slog.Logger
}

// NewService creates a menu service.
func NewService(st *store.Store[models.MenuItem], authz *access.Authorizer, ids util.IDSource) *Service {
	if ids == nil {
		ids = util.NewIDGenerator()
	}
	return &Service{
		store: st,
		authz: authz,
		ids:   ids,
		log:   slog.Default().With("component", "menu"),
	}
}

// List returns the menu in insertion order.
func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	if err := s.authz.Authorize(access.FeatureMenuManagement); err != nil {
		return nil, err
	}
	items, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading menu: %w", err)
	}
	return items, nil
}

// Add validates input and appends it to the menu.
func (s *Service) Add(ctx context.Context, input AddInput) (models.MenuItem, error) {
	if err := s.authz.Authorize(access.FeatureMenuManagement); err != nil {
		return models.MenuItem{}, err
	}

	item, err := s.parse(input)
	if err != nil {
		return models.MenuItem{}, err
	}

	_, err = s.store.Update(func(items []models.MenuItem) ([]models.MenuItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("saving menu: %w", err)
	}

	s.log.Info("menu item added", "name", item.Name, "price", item.Price)
	return item, nil
}

// Delete removes the item at index. Later items shift down one position.
func (s *Service) Delete(ctx context.Context, index int) (models.MenuItem, error) {
	if err := s.authz.Authorize(access.FeatureMenuManagement); err != nil {
		return models.MenuItem{}, err
	}

	var removed models.MenuItem
	_, err := s.store.Update(func(items []models.MenuItem) ([]models.MenuItem, error) {
		if index < 0 || index >= len(items) {
			return nil, fmt.Errorf("menu position %d of %d: %w", index, len(items), models.ErrIndexOutOfRange)
		}
		removed = items[index]
		return append(items[:index], items[index+1:]...), nil
	})
	if err != nil {
		return models.MenuItem{}, err
	}

	s.log.Info("menu item deleted", "index", index, "name", removed.Name)
	return removed, nil
}

func (s *Service) parse(input AddInput) (models.MenuItem, error) {
	name, err := validate.Text("Name", input.Name)
	if err != nil {
		return models.MenuItem{}, err
	}
	price, err := validate.Amount("Price", input.Price)
	if err != nil {
		return models.MenuItem{}, err
	}

	return models.MenuItem{
		ID:          s.ids.NewID(),
		Name:        name,
		Price:       price,
		Description: input.Description,
	}, nil
}
