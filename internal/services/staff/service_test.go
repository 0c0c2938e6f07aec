package staff

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

func newTestService(t *testing.T, role access.Role) (*Service, *store.Store[models.StaffShift]) {
	t.Helper()
	st := store.New[models.StaffShift](t.TempDir(), CollectionName)
	return NewService(st, access.For(role), util.NewSequenceIDs(100)), st
}

func TestService_AddNormalizesTimeAndRole(t *testing.T) {
	svc, _ := newTestService(t, access.RoleManager)

	shift, err := svc.Add(context.Background(), AddInput{
		Name: " Sam ",
		Date: "2024-06-16",
		Time: "5:30 pm",
		Role: "waiter",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if shift.Name != "Sam" || shift.Time != "17:30" || shift.Role != models.StaffRoleWaiter {
		t.Errorf("Add() = %+v", shift)
	}
}

func TestService_AddValidation(t *testing.T) {
	valid := AddInput{Name: "Sam", Date: "2024-06-16", Time: "09:00", Role: "Chef"}

	tests := []struct {
		name      string
		mutate    func(*AddInput)
		wantField string
	}{
		{"Missing name", func(in *AddInput) { in.Name = "" }, "Name"},
		{"Bad date", func(in *AddInput) { in.Date = "16/06" }, "Date"},
		{"Bad time", func(in *AddInput) { in.Time = "noon" }, "Time"},
		{"Unknown role", func(in *AddInput) { in.Role = "Sommelier" }, "Role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, access.RoleOwner)
			in := valid
			tt.mutate(&in)

			_, err := svc.Add(context.Background(), in)
			var ve *models.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("Add() error = %v, want ValidationError on %s", err, tt.wantField)
			}
		})
	}
}

func TestService_Schedule(t *testing.T) {
	svc, st := newTestService(t, access.RoleOwner)

	shifts := []models.StaffShift{
		testutil.FixtureShift(func(s *models.StaffShift) { s.Name = "Late"; s.Time = "18:00" }),
		testutil.FixtureShift(func(s *models.StaffShift) { s.Name = "Tomorrow"; s.Date = testutil.Today.AddDays(1) }),
		testutil.FixtureShift(func(s *models.StaffShift) { s.Name = "Early"; s.Time = "07:00" }),
		testutil.FixtureShift(func(s *models.StaffShift) { s.Name = "NextWeek"; s.Date = testutil.Today.AddDays(7) }),
	}
	if err := st.Save(shifts); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := svc.Schedule(context.Background(), testutil.Today, testutil.Today.AddDays(1))
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	want := []string{"Early", "Late", "Tomorrow"}
	if len(got) != len(want) {
		t.Fatalf("Schedule() returned %d shifts, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("Schedule()[%d] = %s, want %s", i, got[i].Name, name)
		}
	}

	if _, err := svc.Schedule(context.Background(), testutil.Today, testutil.Today.AddDays(-1)); !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("Schedule() reversed range error = %v, want ErrInvalidRange", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, st := newTestService(t, access.RoleManager)
	if err := st.Save([]models.StaffShift{testutil.FixtureShift()}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := svc.Delete(context.Background(), 3); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("Delete(3) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := svc.Delete(context.Background(), 0); err != nil {
		t.Fatalf("Delete(0) error = %v", err)
	}
	shifts, _ := svc.List(context.Background())
	if len(shifts) != 0 {
		t.Errorf("List() after delete = %d shifts, want 0", len(shifts))
	}
}

func TestService_StaffRoleDenied(t *testing.T) {
	svc, _ := newTestService(t, access.RoleStaff)

	_, err := svc.List(context.Background())
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("List() error = %v, want ErrPermissionDenied", err)
	}
}
