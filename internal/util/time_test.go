package util

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	if !clock.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", clock.Now(), start)
	}
	if err := clock.Advance(48 * time.Hour); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got := FormatDate(clock.Now()); got != "2024-06-17" {
		t.Errorf("after Advance, date = %s, want 2024-06-17", got)
	}
	if err := clock.Advance(-time.Hour); err == nil {
		t.Error("Advance(negative) expected error")
	}
}

func TestDaysUntil(t *testing.T) {
	from := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"Same day", time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC), 0},
		{"Next day short gap", time.Date(2024, 6, 16, 0, 5, 0, 0, time.UTC), 1},
		{"A week later", time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC), 7},
		{"Yesterday", time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(from, tt.to); got != tt.want {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRelativeDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "today"},
		{1, "tomorrow"},
		{-1, "yesterday"},
		{5, "in 5 days"},
		{-3, "3 days ago"},
	}

	for _, tt := range tests {
		if got := RelativeDays(tt.days); got != tt.want {
			t.Errorf("RelativeDays(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}
