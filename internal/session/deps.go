// Package session wires the collection services for one interaction.
//
// Deps holds the long-lived resources opened once per process. A Session
// is built from Deps for a single role and discarded when the interaction
// ends; no service state outlives it.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bistro-ops/bistro/internal/config"
	"github.com/bistro-ops/bistro/internal/database"
	"github.com/bistro-ops/bistro/internal/dataset"
	"github.com/bistro-ops/bistro/internal/metrics"
	"github.com/bistro-ops/bistro/internal/notify"
	"github.com/bistro-ops/bistro/internal/repository"
	"github.com/bistro-ops/bistro/internal/util"
)

// Deps are the process-wide resources sessions are built from.
type Deps struct {
	Config   *config.Config
	DataDir  string
	DB       *database.DB
	Clock    util.Clock
	IDs      util.IDSource
	Metrics  *metrics.Recorder
	Notifier notify.Notifier

	Transactions  *repository.TransactionRepository
	Notifications *repository.NotificationRepository

	// Recovery is the pre-open check of an on-disk database; nil in memory.
	Recovery *database.RecoveryReport
}

// Open prepares the data directory, opens and migrates the database and
// imports the transaction dataset.
func Open(ctx context.Context, cfg *config.Config) (*Deps, error) {
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, err
	}

	dbPath, err := config.DatabasePath(cfg)
	if err != nil {
		return nil, err
	}

	var recovery *database.RecoveryReport
	if dbPath != "" {
		if recovery, err = database.Recover(ctx, dbPath); err != nil {
			return nil, fmt.Errorf("database recovery failed: %w", err)
		}
	}

	db, err := database.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	deps := &Deps{
		Config:        cfg,
		DataDir:       dataDir,
		DB:            db,
		Clock:         util.SystemClock{},
		IDs:           util.NewIDGenerator(),
		Metrics:       metrics.New(),
		Notifier:      notify.FromConfig(cfg.Notification),
		Transactions:  repository.NewTransactionRepository(db.DB),
		Notifications: repository.NewNotificationRepository(db.DB),
		Recovery:      recovery,
	}

	if err := deps.ImportDataset(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return deps, nil
}

// ImportDataset reloads the transaction CSV into the database.
func (d *Deps) ImportDataset(ctx context.Context) error {
	n, err := dataset.Import(ctx, d.Transactions, d.Config.Storage.DatasetPath)
	if err != nil {
		return fmt.Errorf("importing dataset: %w", err)
	}
	slog.Info("dataset imported", "path", d.Config.Storage.DatasetPath, "rows", n)
	return nil
}

// Close writes the metrics textfile, when configured, and closes the
// database.
func (d *Deps) Close() error {
	if path := d.Config.Metrics.TextfilePath; path != "" {
		if err := d.Metrics.WriteTextfile(path); err != nil {
			slog.Warn("writing metrics textfile failed", "path", path, "error", err)
		}
	}
	return d.DB.Close()
}
