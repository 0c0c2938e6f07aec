package waste

import (
	"context"
	"errors"
	"testing"

	"github.com/bistro-ops/bistro/internal/access"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/store"
	"github.com/bistro-ops/bistro/internal/testutil"
	"github.com/bistro-ops/bistro/internal/util"
)

func newTestService(t *testing.T, role access.Role) (*Service, *store.Store[models.WasteEntry]) {
	t.Helper()
	st := store.New[models.WasteEntry](t.TempDir(), CollectionName)
	svc := NewService(st, access.For(role), util.NewFixedClock(testutil.Now), util.NewSequenceIDs(1))
	return svc, st
}

func TestService_AddDefaultsToToday(t *testing.T) {
	svc, _ := newTestService(t, access.RoleStaff)

	entry, err := svc.Add(context.Background(), AddInput{Item: "Bread", Quantity: "3", Reason: "spoiled"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !entry.Date.Equal(testutil.Today) {
		t.Errorf("Add() date = %v, want %v", entry.Date, testutil.Today)
	}
	if entry.Reason != models.WasteReasonSpoiled {
		t.Errorf("Add() reason = %q, want Spoiled", entry.Reason)
	}
	if entry.ID == "" {
		t.Error("Add() did not assign an ID")
	}
}

func TestService_AddValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     AddInput
		wantField string
	}{
		{"Missing item", AddInput{Quantity: "1", Reason: "Other"}, "Item"},
		{"Negative quantity", AddInput{Item: "Soup", Quantity: "-1", Reason: "Other"}, "Quantity"},
		{"Unknown reason", AddInput{Item: "Soup", Quantity: "2", Reason: "Dropped"}, "Reason"},
		{"Bad date", AddInput{Item: "Soup", Quantity: "2", Reason: "Other", Date: "yesterday"}, "Date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newTestService(t, access.RoleOwner)

			_, err := svc.Add(context.Background(), tt.input)
			var ve *models.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Fatalf("Add() error = %v, want ValidationError on %s", err, tt.wantField)
			}

			entries, _ := st.Load()
			if len(entries) != 0 {
				t.Errorf("store modified after failed validation")
			}
		})
	}
}

func TestService_AddZeroQuantity(t *testing.T) {
	svc, st := newTestService(t, access.RoleOwner)

	entry, err := svc.Add(context.Background(), AddInput{Item: "Soup", Quantity: "0", Reason: "Other"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if entry.Quantity != 0 {
		t.Errorf("Quantity = %d, want 0", entry.Quantity)
	}

	entries, _ := st.Load()
	if len(entries) != 1 {
		t.Errorf("stored %d entries, want 1", len(entries))
	}
}

func TestService_Totals(t *testing.T) {
	svc, st := newTestService(t, access.RoleManager)

	entries := []models.WasteEntry{
		testutil.FixtureWasteEntry(func(e *models.WasteEntry) { e.Quantity = 2; e.Date = testutil.Today.AddDays(-1) }),
		testutil.FixtureWasteEntry(func(e *models.WasteEntry) { e.Quantity = 3; e.Reason = models.WasteReasonOther }),
		testutil.FixtureWasteEntry(func(e *models.WasteEntry) { e.Quantity = 4 }),
	}
	if err := st.Save(entries); err != nil {
		t.Fatalf("setup: %v", err)
	}

	byReason, err := svc.TotalsByReason(context.Background())
	if err != nil {
		t.Fatalf("TotalsByReason() error = %v", err)
	}
	want := []ReasonTotal{
		{Reason: models.WasteReasonSpoiled, Total: 6},
		{Reason: models.WasteReasonOther, Total: 3},
	}
	if len(byReason) != len(want) {
		t.Fatalf("TotalsByReason() = %+v, want %+v", byReason, want)
	}
	for i := range want {
		if byReason[i] != want[i] {
			t.Errorf("TotalsByReason()[%d] = %+v, want %+v", i, byReason[i], want[i])
		}
	}

	daily, err := svc.DailyTotals(context.Background())
	if err != nil {
		t.Fatalf("DailyTotals() error = %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("DailyTotals() len = %d, want 2", len(daily))
	}
	if daily[0].Total != 2 || daily[1].Total != 7 {
		t.Errorf("DailyTotals() = %+v, want totals 2 then 7", daily)
	}
}

func TestService_PermissionDenied(t *testing.T) {
	st := store.New[models.WasteEntry](t.TempDir(), CollectionName)
	svc := NewService(st, access.For("Visitor"), nil, nil)

	_, err := svc.Add(context.Background(), AddInput{Item: "Soup", Quantity: "1", Reason: "Other"})
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("Add() error = %v, want ErrPermissionDenied", err)
	}
}
