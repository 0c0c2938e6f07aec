package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bistro-ops/bistro/internal/models"
)

type record struct {
	Name  string `json:"Name"`
	Count int    `json:"Count"`
}

func TestLoad_MissingFile(t *testing.T) {
	s := New[record](t.TempDir(), "things")

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := New[record](t.TempDir(), "things")
	want := []record{{"a", 1}, {"b", 2}, {"c", 3}}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	again, err := s.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	for i := range got {
		if again[i] != got[i] {
			t.Errorf("second Load() record %d = %+v, want %+v", i, again[i], got[i])
		}
	}
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	s := New[record](t.TempDir(), "things")
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("file content = %q, want []", data)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New[record](dir, "things")
	for i := 0; i < 3; i++ {
		if err := s.Save([]record{{"x", i}}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "things.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contains %v, want only things.json", names)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Truncated", `[{"Name": "a", "Cou`},
		{"Empty file", ""},
		{"Wrong shape", `{"Name": "a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := New[record](dir, "things")
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0644); err != nil {
				t.Fatalf("setup: %v", err)
			}

			got, err := s.Load()
			if !errors.Is(err, models.ErrCorruptData) {
				t.Fatalf("Load() error = %v, want ErrCorruptData", err)
			}
			if got != nil {
				t.Errorf("Load() = %v, want nil records on corruption", got)
			}
			var ce *CorruptDataError
			if !errors.As(err, &ce) || ce.Collection != "things" {
				t.Errorf("errors.As() = %+v, want collection things", ce)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	s := New[record](t.TempDir(), "things")
	if err := s.Save([]record{{"a", 1}}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := s.Update(func(rs []record) ([]record, error) {
		return append(rs, record{"b", 2}), nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Update() returned %d records, want 2", len(got))
	}

	boom := errors.New("boom")
	_, err = s.Update(func(rs []record) ([]record, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	after, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(after) != 2 {
		t.Errorf("failed Update() changed the file: %d records", len(after))
	}
}

func TestUpdate_SerialisesWriters(t *testing.T) {
	dir := t.TempDir()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each goroutine opens its own Store, as separate sessions do.
			s := New[record](dir, "counter")
			if _, err := s.Update(func(rs []record) ([]record, error) {
				return append(rs, record{"w", len(rs)}), nil
			}); err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := New[record](dir, "counter").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != writers {
		t.Errorf("Load() returned %d records, want %d (lost update)", len(got), writers)
	}
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	s := New[record](dir, "things", WithClock(func() time.Time { return fixed }))

	dest, err := s.Reset()
	if err != nil || dest != "" {
		t.Fatalf("Reset() on missing file = %q, %v; want \"\", nil", dest, err)
	}

	if err := os.WriteFile(s.Path(), []byte("{{{"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	dest, err = s.Reset()
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if want := filepath.Join(dir, "things.json.corrupt-20240615T103000"); dest != want {
		t.Errorf("Reset() = %q, want %q", dest, want)
	}

	got, err := s.Load()
	if err != nil || len(got) != 0 {
		t.Errorf("Load() after Reset() = %v, %v; want empty", got, err)
	}
}

func TestSaveHook(t *testing.T) {
	var calls []string
	s := New[record](t.TempDir(), "things", WithSaveHook(func(name string, count int) {
		calls = append(calls, name)
	}))

	if err := s.Save([]record{{"a", 1}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(calls) != 1 || calls[0] != "things" {
		t.Errorf("hook calls = %v, want [things]", calls)
	}
}
