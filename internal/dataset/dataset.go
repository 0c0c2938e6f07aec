// Package dataset parses the daily financial CSV export and loads it into
// the transaction repository.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bistro-ops/bistro/internal/models"
)

// Column headers as they appear in the export.
const (
	ColDate          = "Date"
	ColRevenue       = "Revenue"
	ColTotalExpenses = "Total Expenses"
	ColNetProfit     = "Net Profit"
	ColFoodCosts     = "Food Costs"
	ColLaborCosts    = "Labor Costs"
	ColUtilities     = "Utilities"
	ColMiscellaneous = "Miscellaneous Expenses"
	ColCategory      = "Category"
	ColItem          = "Item"
)

// Header is the canonical column order used when writing the dataset.
var Header = []string{
	ColDate, ColRevenue, ColTotalExpenses, ColNetProfit, ColFoodCosts,
	ColLaborCosts, ColUtilities, ColMiscellaneous, ColCategory, ColItem,
}

var requiredColumns = []string{ColDate, ColRevenue, ColTotalExpenses}

// ParseError locates a malformed cell.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// Parse reads all rows from r. Rows keep file order. Net Profit defaults to
// Revenue minus Total Expenses when the column is absent or blank.
func Parse(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[strings.ToLower(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	rows := []models.Transaction{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if blankRecord(record) {
			continue
		}

		row, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(record []string, index map[string]int, line int) (models.Transaction, error) {
	var t models.Transaction

	cell := func(col string) string {
		i, ok := index[strings.ToLower(col)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseDate(cell(ColDate))
	if err != nil {
		return t, &ParseError{Line: line, Column: ColDate, Err: err}
	}
	t.Date = date

	numbers := []struct {
		col      string
		dest     *float64
		required bool
	}{
		{ColRevenue, &t.Revenue, true},
		{ColTotalExpenses, &t.TotalExpenses, true},
		{ColFoodCosts, &t.FoodCosts, false},
		{ColLaborCosts, &t.LaborCosts, false},
		{ColUtilities, &t.Utilities, false},
		{ColMiscellaneous, &t.Miscellaneous, false},
	}
	for _, n := range numbers {
		v, err := parseAmount(cell(n.col), n.required)
		if err != nil {
			return t, &ParseError{Line: line, Column: n.col, Err: err}
		}
		*n.dest = v
	}

	if raw := cell(ColNetProfit); raw != "" {
		v, err := parseAmount(raw, true)
		if err != nil {
			return t, &ParseError{Line: line, Column: ColNetProfit, Err: err}
		}
		t.NetProfit = v
	} else {
		t.NetProfit = t.Revenue - t.TotalExpenses
	}

	t.Category = cell(ColCategory)
	t.Item = cell(ColItem)
	return t, nil
}

func parseDate(s string) (models.Date, error) {
	if d, err := models.ParseDate(s); err == nil {
		return d, nil
	}
	for _, layout := range []string{"1/2/2006", "01/02/2006", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t), nil
		}
	}
	return models.Date{}, fmt.Errorf("invalid date %q", s)
}

func parseAmount(s string, required bool) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		if required {
			return 0, errors.New("value is required")
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Write encodes rows with the canonical header.
func Write(w io.Writer, rows []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range rows {
		record := []string{
			t.Date.String(),
			formatAmount(t.Revenue),
			formatAmount(t.TotalExpenses),
			formatAmount(t.NetProfit),
			formatAmount(t.FoodCosts),
			formatAmount(t.LaborCosts),
			formatAmount(t.Utilities),
			formatAmount(t.Miscellaneous),
			t.Category,
			t.Item,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatAmount writes the shortest decimal that parses back to v.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Replacer stores a parsed dataset. It is satisfied by
// *repository.TransactionRepository.
type Replacer interface {
	ReplaceAll(ctx context.Context, tx *sql.Tx, source string, rows []models.Transaction) error
}

// Import parses the CSV at path and replaces the stored dataset with it.
// A missing file imports an empty dataset and is not an error.
func Import(ctx context.Context, repo Replacer, path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("transaction dataset not found, analytics will be empty", "path", path)
		return 0, repo.ReplaceAll(ctx, nil, path, nil)
	}
	if err != nil {
		return 0, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := repo.ReplaceAll(ctx, nil, path, rows); err != nil {
		return 0, fmt.Errorf("storing dataset: %w", err)
	}

	slog.Info("transaction dataset imported", "path", path, "rows", len(rows))
	return len(rows), nil
}
