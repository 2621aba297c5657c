package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hyemin/artmate/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&domain.PointEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newEvent(userID string, points int, idemKey string, at time.Time) *domain.PointEvent {
	return &domain.PointEvent{
		ID:             uuid.New().String(),
		UserID:         userID,
		Activity:       domain.ActivityArtworkView,
		Points:         points,
		IdempotencyKey: idemKey,
		CreatedAt:      at,
	}
}

func TestInsertUnique_ConflictIsNotAnError(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	inserted, err := repo.InsertUnique(ctx, newEvent("user-1", 1, "key-a", at))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatal("first insert must succeed")
	}

	inserted, err = repo.InsertUnique(ctx, newEvent("user-1", 1, "key-a", at))
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Error("duplicate idempotency key must not insert")
	}

	total, err := repo.TotalPoints(ctx, "user-1")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestTotalPoints_UnknownUserIsZero(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))

	total, err := repo.TotalPoints(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestCountForDay(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// Two events inside the day, one just before, one just after.
	stamps := []time.Time{
		day.Add(2 * time.Hour),
		day.Add(23*time.Hour + 59*time.Minute),
		day.Add(-time.Minute),
		day.Add(24 * time.Hour),
	}
	for i, at := range stamps {
		if _, err := repo.InsertUnique(ctx, newEvent("user-1", 1, fmt.Sprintf("key-%d", i), at)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	count, err := repo.CountForDay(ctx, "user-1", domain.ActivityArtworkView, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestListByUser_Pagination(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		event := newEvent("user-1", 1, fmt.Sprintf("key-%d", i), base.Add(time.Duration(i)*time.Minute))
		if _, err := repo.InsertUnique(ctx, event); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	page, err := repo.ListByUser(ctx, "user-1", 2, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page))
	}
	// Newest first, offset 1 skips the newest.
	if page[0].IdempotencyKey != "key-3" || page[1].IdempotencyKey != "key-2" {
		t.Errorf("page: %s, %s", page[0].IdempotencyKey, page[1].IdempotencyKey)
	}
}
