// Package validate converts raw form and flag values into typed record
// fields, reporting failures as *models.ValidationError.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bistro-ops/bistro/internal/models"
)

// Text trims raw and rejects it when empty.
func Text(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", models.NewValidationError(field, "is required")
	}
	return v, nil
}

// Amount parses a non-negative decimal such as a price.
func Amount(field, raw string) (float64, error) {
	v := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if v == "" {
		return 0, models.NewValidationError(field, "is required")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, models.NewValidationError(field, "must be a number")
	}
	if f < 0 {
		return 0, models.NewValidationError(field, "must not be negative")
	}
	return f, nil
}

// Count parses a non-negative whole number such as a quantity.
func Count(field, raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, models.NewValidationError(field, "is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, models.NewValidationError(field, "must be a whole number")
	}
	if n < 0 {
		return 0, models.NewValidationError(field, "must not be negative")
	}
	return n, nil
}

// Date parses a YYYY-MM-DD date.
func Date(field, raw string) (models.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Date{}, models.NewValidationError(field, "is required")
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, models.NewValidationError(field, "must be a date (YYYY-MM-DD)")
	}
	return d, nil
}

// DateOr parses raw as a date, or returns fallback when raw is blank.
func DateOr(field, raw string, fallback models.Date) (models.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return Date(field, raw)
}

// ClockTime parses an HH:MM time of day and returns it normalised.
func ClockTime(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", models.NewValidationError(field, "is required")
	}
	for _, layout := range []string{models.ShiftTimeLayout, "15:04:05", "3:04PM", "3:04 PM"} {
		if t, err := time.Parse(layout, strings.ToUpper(v)); err == nil {
			return t.Format(models.ShiftTimeLayout), nil
		}
	}
	return "", models.NewValidationError(field, "must be a time (HH:MM)")
}
