// Package staff manages the shift rota.
package staff

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/services/validate"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/util"
)

// CollectionName is the rota file name without extension.
const CollectionName = "staff_rota"

// Service provides rota operations.
type Service struct {
	store *store.Store[models.StaffShift]
	authz *access.Authorizer
	ids   util.IDSource
	log   *slog.Logger
}

// NewService creates a staff service.
func NewService(st *store.Store[models.StaffShift], authz *access.Authorizer, ids util.IDSource) *Service {
	if ids == nil {
		ids = util.NewIDGenerator()
	}
	return &Service{
		store: st,
		authz: authz,
		ids:   ids,
		log:   slog.Default().With("component", "staff"),
	}
}

// List returns every shift in insertion order.
func (s *Service) List(ctx context.Context) ([]models.StaffShift, error) {
	if err := s.authz.Authorize(access.FeatureStaffScheduling); err != nil {
		return nil, err
	}
	shifts, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading rota: %w", err)
	}
	return shifts, nil
}

// Add validates input and appends the shift.
func (s *Service) Add(ctx context.Context, input AddInput) (models.StaffShift, error) {
	if err := s.authz.Authorize(access.FeatureStaffScheduling); err != nil {
		return models.StaffShift{}, err
	}

	shift, err := s.parse(input)
	if err != nil {
		return models.StaffShift{}, err
	}

	_, err = s.store.Update(func(shifts []models.StaffShift) ([]models.StaffShift, error) {
		return append(shifts, shift), nil
	})
	if err != nil {
		return models.StaffShift{}, fmt.Errorf("saving rota: %w", err)
	}

	s.log.Info("shift added", "name", shift.Name, "date", shift.Date, "time", shift.Time, "role", shift.Role)
	return shift, nil
}

// Delete removes the shift at index in insertion order.
func (s *Service) Delete(ctx context.Context, index int) (models.StaffShift, error) {
	if err := s.authz.Authorize(access.FeatureStaffScheduling); err != nil {
		return models.StaffShift{}, err
	}

	var removed models.StaffShift
	_, err := s.store.Update(func(shifts []models.StaffShift) ([]models.StaffShift, error) {
		if index < 0 || index >= len(shifts) {
			return nil, fmt.Errorf("rota position %d of %d: %w", index, len(shifts), models.ErrIndexOutOfRange)
		}
		removed = shifts[index]
		return append(shifts[:index], shifts[index+1:]...), nil
	})
	if err != nil {
		return models.StaffShift{}, err
	}

	s.log.Info("shift deleted", "index", index, "name", removed.Name, "date", removed.Date)
	return removed, nil
}

// Schedule returns shifts dated within [from, to], ordered by date then
// start time. A zero bound is open.
func (s *Service) Schedule(ctx context.Context, from, to models.Date) ([]models.StaffShift, error) {
	shifts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("schedule %s to %s: %w", from, to, models.ErrInvalidRange)
	}

	var out []models.StaffShift
	for _, sh := range shifts {
		if !from.IsZero() && sh.Date.Before(from) {
			continue
		}
		if !to.IsZero() && sh.Date.After(to) {
			continue
		}
		out = append(out, sh)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *Service) parse(input AddInput) (models.StaffShift, error) {
	name, err := validate.Text("Name", input.Name)
	if err != nil {
		return models.StaffShift{}, err
	}
	date, err := validate.Date("Date", input.Date)
	if err != nil {
		return models.StaffShift{}, err
	}
	at, err := validate.ClockTime("Time", input.Time)
	if err != nil {
		return models.StaffShift{}, err
	}
	role, err := parseRole(input.Role)
	if err != nil {
		return models.StaffShift{}, err
	}

	return models.StaffShift{
		ID:   s.ids.NewID(),
		Name: name,
		Date: date,
		Time: at,
		Role: role,
	}, nil
}

func parseRole(raw string) (models.StaffRole, error) {
	raw = strings.TrimSpace(raw)
	for _, r := range models.StaffRoles() {
		if strings.EqualFold(raw, string(r)) {
			return r, nil
		}
	}
	return "", models.NewValidationError("Role", fmt.Sprintf("must be one of %v", models.StaffRoles()))
}
