package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bistro-ops/bistro/internal/database"
	"github.com/bistro-ops/bistro/internal/models"
	"github.com/bistro-ops/bistro/internal/store"
)

// Diagnosis is a read-only snapshot of the back office's files.
type Diagnosis struct {
	DataDir  string
	Database string
	// Recovery is empty for in-memory databases.
	Recovery   string
	DBErr      error
	Migrations []database.Migration

	DatasetPath  string
	Transactions int
	First, Last  models.Date

	Collections []CollectionStatus
}

// CollectionStatus is the load result for one collection file.
type CollectionStatus struct {
	Name    string
	Path    string
	Records int
	Err     error
}

// Problems returns the database and collection errors found.
func (d *Diagnosis) Problems() []error {
	var errs []error
	if d.DBErr != nil {
		errs = append(errs, d.DBErr)
	}
	for _, c := range d.Collections {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errs
}

// Diagnose checks the database and every collection without modifying
// either. Problems are reported in the Diagnosis; the returned error is
// for failures that stop the check itself.
func Diagnose(ctx context.Context, d *Deps) (*Diagnosis, error) {
	diag := &Diagnosis{
		DataDir:     d.DataDir,
		Database:    d.DB.Path(),
		DatasetPath: d.Config.Storage.DatasetPath,
	}
	if d.Recovery != nil {
		diag.Recovery = d.Recovery.Result.String()
	}

	diag.DBErr = errors.Join(d.DB.HealthCheck(ctx), d.DB.CheckIntegrity(ctx))

	m, err := database.NewMigrator(d.DB)
	if err != nil {
		return nil, err
	}
	if diag.Migrations, err = m.Status(ctx); err != nil {
		return nil, fmt.Errorf("reading migration status: %w", err)
	}

	if diag.Transactions, err = d.Transactions.Count(ctx); err != nil {
		return nil, err
	}
	if diag.First, diag.Last, _, err = d.Transactions.Bounds(ctx); err != nil {
		return nil, err
	}

	for _, name := range Collections() {
		s := store.New[json.RawMessage](d.DataDir, name)
		records, err := s.Load()
		diag.Collections = append(diag.Collections, CollectionStatus{
			Name:    name,
			Path:    s.Path(),
			Records: len(records),
			Err:     err,
		})
	}

	return diag, nil
}
