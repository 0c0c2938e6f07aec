package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bistro-ops/bistro/internal/testutil"
	"github.com/bistro-ops/bistro/internal/util"
)

func TestNotificationRepository_RecordAndRecent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository(db.DB)
	ctx := context.Background()

	base := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	statuses := []string{"no_alerts", "sent", "failed"}
	for i, status := range statuses {
		rec := &NotificationRecord{
			ID:          util.NewID(),
			SentAt:      base.Add(time.Duration(i) * time.Hour),
			Destination: "chef@example.com",
			Subject:     "Inventory alerts",
			AlertCount:  i,
			Status:      status,
		}
		if err := repo.Record(ctx, nil, rec); err != nil {
			t.Fatalf("Record(%s) error = %v", status, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() returned %d records, want 2", len(recent))
	}
	if recent[0].Status != "failed" || recent[1].Status != "sent" {
		t.Errorf("Recent() order = %s, %s; want failed, sent", recent[0].Status, recent[1].Status)
	}
	if !recent[0].SentAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("SentAt = %v", recent[0].SentAt)
	}
}

func TestNotificationRepository_RejectsUnknownStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository(db.DB)

	err := repo.Record(context.Background(), nil, &NotificationRecord{
		ID:     util.NewID(),
		SentAt: time.Now(),
		Status: "maybe",
	})
	if err == nil {
		t.Error("Record() with unknown status expected error")
	}
}
