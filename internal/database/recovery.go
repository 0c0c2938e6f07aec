package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RecoveryResult indicates the outcome of a recovery attempt.
type RecoveryResult int

const (
	// RecoveryHealthy means the file was absent or passed the integrity check.
	RecoveryHealthy RecoveryResult = iota
	// RecoveryWAL means a WAL checkpoint repaired the file.
	RecoveryWAL
	// RecoveryQuarantined means the file was moved aside and a fresh
	// database will be created. The transaction table is rebuilt from the
	// dataset; dispatch history stays in the quarantined file.
	RecoveryQuarantined
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoveryHealthy:
		return "healthy"
	case RecoveryWAL:
		return "wal_recovered"
	case RecoveryQuarantined:
		return "quarantined"
	default:
		return "unknown"
	}
}

// RecoveryReport contains details about a recovery attempt.
type RecoveryReport struct {
	Result      RecoveryResult
	Path        string
	Quarantined string
	Steps       []RecoveryStep
}

// RecoveryStep represents a single step in the recovery process.
type RecoveryStep struct {
	Name      string
	Succeeded bool
	Message   string
	Duration  time.Duration
}

// Recover checks the database file at dbPath before it is opened.
// Phase 1: integrity check
// Phase 2: WAL checkpoint, when a WAL file exists
// Phase 3: quarantine the file
func Recover(ctx context.Context, dbPath string) (*RecoveryReport, error) {
	report := &RecoveryReport{Path: dbPath}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		report.Steps = append(report.Steps, RecoveryStep{
			Name:      "check_exists",
			Succeeded: true,
			Message:   "database does not exist (first run)",
		})
		return report, nil
	}

	check := runRecoveryStep("integrity_check", func() (string, error) {
		return checkIntegrity(ctx, dbPath)
	})
	report.Steps = append(report.Steps, check)
	if check.Succeeded {
		slog.Debug("database integrity check passed", "path", dbPath)
		return report, nil
	}

	slog.Warn("database integrity check failed", "path", dbPath, "error", check.Message)

	if _, err := os.Stat(dbPath + "-wal"); err == nil {
		wal := runRecoveryStep("wal_checkpoint", func() (string, error) {
			return checkpointWAL(ctx, dbPath)
		})
		report.Steps = append(report.Steps, wal)

		if wal.Succeeded {
			recheck := runRecoveryStep("post_wal_integrity", func() (string, error) {
				return checkIntegrity(ctx, dbPath)
			})
			report.Steps = append(report.Steps, recheck)
			if recheck.Succeeded {
				report.Result = RecoveryWAL
				slog.Info("database recovered via WAL checkpoint", "path", dbPath)
				return report, nil
			}
		}
	}

	dest := fmt.Sprintf("%s.corrupt-%s", dbPath, time.Now().UTC().Format("20060102T150405"))
	move := runRecoveryStep("quarantine", func() (string, error) {
		if err := os.Rename(dbPath, dest); err != nil {
			return "", err
		}
		for _, suffix := range []string{"-wal", "-shm"} {
			os.Remove(dbPath + suffix)
		}
		return dest, nil
	})
	report.Steps = append(report.Steps, move)
	if !move.Succeeded {
		return report, fmt.Errorf("quarantining damaged database %s: %s", dbPath, move.Message)
	}

	report.Result = RecoveryQuarantined
	report.Quarantined = dest
	slog.Warn("damaged database moved aside", "path", dbPath, "quarantined", dest)
	return report, nil
}

func runRecoveryStep(name string, fn func() (string, error)) RecoveryStep {
	start := time.Now()
	msg, err := fn()

	step := RecoveryStep{
		Name:      name,
		Succeeded: err == nil,
		Message:   msg,
		Duration:  time.Since(start),
	}
	if err != nil {
		step.Message = err.Error()
	}
	return step
}

// checkIntegrity runs SQLite's integrity check on a read-only connection.
func checkIntegrity(ctx context.Context, dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return "", fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return "", fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating results: %w", err)
	}

	if len(results) == 1 && results[0] == "ok" {
		return "ok", nil
	}
	return "", fmt.Errorf("integrity check failed: %s", strings.Join(results, "; "))
}

func checkpointWAL(ctx context.Context, dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_txlock=immediate", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(RESTART)"); err != nil {
		return "", fmt.Errorf("WAL checkpoint: %w", err)
	}
	return "WAL checkpoint complete", nil
}
