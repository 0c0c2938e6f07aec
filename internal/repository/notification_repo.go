package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// NotificationRecord is one alert dispatch attempt.
type NotificationRecord struct {
	ID          string
	SentAt      time.Time
	Destination string
	Subject     string
	AlertCount  int
	Status      string
	Error       string
}

// NotificationRepository stores the alert dispatch history.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Record inserts a dispatch attempt.
func (r *NotificationRepository) Record(ctx context.Context, tx *sql.Tx, rec *NotificationRecord) error {
	query := `
		INSERT INTO notifications (
			id, sent_at, destination, subject, alert_count, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.getExecer(tx).ExecContext(ctx, query,
		rec.ID,
		rec.SentAt.UTC().Format(time.RFC3339),
		rec.Destination,
		rec.Subject,
		rec.AlertCount,
		rec.Status,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// Recent returns up to limit dispatch attempts, newest first.
func (r *NotificationRepository) Recent(ctx context.Context, limit int) ([]*NotificationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sent_at, destination, subject, alert_count, status, error
		FROM notifications
		ORDER BY sent_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var records []*NotificationRecord
	for rows.Next() {
		var rec NotificationRecord
		var sentAt string
		if err := rows.Scan(&rec.ID, &sentAt, &rec.Destination, &rec.Subject, &rec.AlertCount, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		rec.SentAt, _ = time.Parse(time.RFC3339, sentAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *NotificationRepository) getExecer(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}
