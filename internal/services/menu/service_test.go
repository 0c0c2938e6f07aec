package menu

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/testutil"
	"github.com/bistro-ops/bistro/internal/util"
)

func newTestService(t *testing.T, role access.Role) (*Service, *store.Store[models.MenuItem]) {
	t.Helper()
	st := store.New[models.MenuItem](t.TempDir(), CollectionName)
	return NewService(st, access.For(role), util.NewSequenceIDs(1)), st
}

func TestService_AddAndList(t *testing.T) {
	svc, st := newTestService(t, access.RoleManager)
	ctx := context.Background()

	item, err := svc.Add(ctx, AddInput{Name: " Pizza ", Price: "12.5", Description: "Wood fired"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if item.Name != "Pizza" || item.Price != 12.5 {
		t.Errorf("Add() = %+v", item)
	}
	if !util.IsValidID(item.ID) {
		t.Errorf("Add() ID = %q, not a UUID", item.ID)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Pizza" {
		t.Errorf("List() = %+v", items)
	}

	again, err := svc.List(ctx)
	if err != nil || len(again) != len(items) {
		t.Errorf("second List() = %v, %v", again, err)
	}

	persisted, err := st.Load()
	if err != nil || len(persisted) != 1 {
		t.Errorf("store has %d items, %v", len(persisted), err)
	}
}

func TestService_AddValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     AddInput
		wantField string
	}{
		{"Missing name", AddInput{Name: " ", Price: "5"}, "Name"},
		{"Negative price", AddInput{Name: "Soup", Price: "-1"}, "Price"},
		{"Non-numeric price", AddInput{Name: "Soup", Price: "cheap"}, "Price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService(t, access.RoleOwner)

			_, err := svc.Add(context.Background(), tt.input)
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Add() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}

			items, err := st.Load()
			if err != nil || len(items) != 0 {
				t.Errorf("store modified after failed validation: %v, %v", items, err)
			}
		})
	}
}

func TestService_DeleteShiftsPositions(t *testing.T) {
	svc, st := newTestService(t, access.RoleOwner)
	ctx := context.Background()

	seed := []models.MenuItem{
		testutil.FixtureMenuItem(func(m *models.MenuItem) { m.Name = "A" }),
		testutil.FixtureMenuItem(func(m *models.MenuItem) { m.Name = "B" }),
		testutil.FixtureMenuItem(func(m *models.MenuItem) { m.Name = "C" }),
	}
	if err := st.Save(seed); err != nil {
		t.Fatalf("setup: %v", err)
	}

	removed, err := svc.Delete(ctx, 0)
	if err != nil {
		t.Fatalf("Delete(0) error = %v", err)
	}
	if removed.Name != "A" {
		t.Errorf("Delete(0) removed %q, want A", removed.Name)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].Name != "B" || items[1].Name != "C" {
		t.Errorf("List() after delete = %+v, want [B C]", items)
	}
}

func TestService_DeleteOutOfRange(t *testing.T) {
	svc, st := newTestService(t, access.RoleOwner)
	if err := st.Save([]models.MenuItem{testutil.FixtureMenuItem()}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, index := range []int{-1, 1, 5} {
		_, err := svc.Delete(context.Background(), index)
		if !errors.Is(err, models.ErrIndexOutOfRange) {
			t.Errorf("Delete(%d) error = %v, want ErrIndexOutOfRange", index, err)
		}
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Delete(%d) error should also match ErrNotFound", index)
		}
	}

	items, _ := st.Load()
	if len(items) != 1 {
		t.Errorf("store has %d items after failed deletes, want 1", len(items))
	}
}

func TestService_PermissionDenied(t *testing.T) {
	svc, st := newTestService(t, access.RoleStaff)
	ctx := context.Background()

	if _, err := svc.List(ctx); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("List() error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Add(ctx, AddInput{Name: "Soup", Price: "4"}); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("Add() error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Delete(ctx, 0); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("Delete() error = %v, want ErrPermissionDenied", err)
	}

	items, _ := st.Load()
	if len(items) != 0 {
		t.Errorf("denied Add() wrote %d items", len(items))
	}
}

func TestService_CorruptFile(t *testing.T) {
	svc, st := newTestService(t, access.RoleOwner)
	if err := os.WriteFile(st.Path(), []byte("not json"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := svc.List(context.Background())
	if !errors.Is(err, models.ErrCorruptData) {
		t.Errorf("List() error = %v, want ErrCorruptData", err)
	}
	_, err = svc.Add(context.Background(), AddInput{Name: "Soup", Price: "4"})
	if !errors.Is(err, models.ErrCorruptData) {
		t.Errorf("Add() error = %v, want ErrCorruptData", err)
	}
}
