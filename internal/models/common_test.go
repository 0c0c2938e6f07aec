package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"Plain date", "2024-03-09", NewDate(2024, time.March, 9), false},
		{"Surrounding spaces", " 2024-03-09 ", NewDate(2024, time.March, 9), false},
		{"Timestamp truncated", "2024-03-09T17:45:00", NewDate(2024, time.March, 9), false},
		{"Empty", "", Date{}, true},
		{"Garbage", "next tuesday", Date{}, true},
		{"Impossible day", "2024-02-30", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		When Date `json:"When"`
	}

	data, err := json.Marshal(wrapper{When: NewDate(2024, time.July, 1)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"When":"2024-07-01"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var empty wrapper
	if err := json.Unmarshal([]byte(`{"When":""}`), &empty); err != nil {
		t.Fatalf("Unmarshal(empty) error = %v", err)
	}
	if !empty.When.IsZero() {
		t.Errorf("Unmarshal(empty) = %v, want zero date", empty.When)
	}

	var bad wrapper
	if err := json.Unmarshal([]byte(`{"When":"31/12/2024"}`), &bad); err == nil {
		t.Error("Unmarshal(bad) expected error")
	}
}

func TestDate_Between(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)

	if !start.Between(start, end) || !end.Between(start, end) {
		t.Error("Between() should include both ends")
	}
	if start.AddDays(-1).Between(start, end) {
		t.Error("Between() should exclude the day before start")
	}
	if end.AddDays(1).Between(start, end) {
		t.Error("Between() should exclude the day after end")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !errors.Is(ErrIndexOutOfRange, ErrNotFound) {
		t.Error("ErrIndexOutOfRange should match ErrNotFound")
	}
	if !errors.Is(ErrInvalidRange, ErrValidation) {
		t.Error("ErrInvalidRange should match ErrValidation")
	}

	var err error = NewValidationError("Price", "must be a number")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "Price" {
		t.Errorf("errors.As() field = %v, want Price", ve)
	}
}
