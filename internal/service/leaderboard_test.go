package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/repository"
)

// seedEvent inserts one ledger row with an explicit timestamp.
func seedEvent(t *testing.T, ledger *repository.LedgerRepository, userID string, points int, at time.Time) {
	t.Helper()
	inserted, err := ledger.InsertUnique(context.Background(), &domain.PointEvent{
		ID:             uuid.New().String(),
		UserID:         userID,
		Activity:       domain.ActivityQuizComplete,
		Points:         points,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      at,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if !inserted {
		t.Fatal("seed event not inserted")
	}
}

func TestTop_OrderingAndSharedRanks(t *testing.T) {
	db := newTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	svc := NewLeaderboardService(repository.NewLeaderboardRepository(db))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// alice and bob tie at 50; alice reached it a day earlier.
	seedEvent(t, ledger, "alice", 50, base)
	seedEvent(t, ledger, "bob", 50, base.AddDate(0, 0, 1))
	seedEvent(t, ledger, "carol", 30, base)

	entries, err := svc.Top(ctx, WindowAllTime, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].UserID != "alice" || entries[1].UserID != "bob" || entries[2].UserID != "carol" {
		t.Errorf("order: %s, %s, %s", entries[0].UserID, entries[1].UserID, entries[2].UserID)
	}
	// Equal totals share a rank; the next distinct total resumes at its
	// positional rank.
	if entries[0].Rank != 1 || entries[1].Rank != 1 || entries[2].Rank != 3 {
		t.Errorf("ranks: %d, %d, %d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
	if entries[0].Level != Level(50) {
		t.Errorf("level = %d, want %d", entries[0].Level, Level(50))
	}
}

func TestRankOf_ConsistentWithTop(t *testing.T) {
	db := newTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	svc := NewLeaderboardService(repository.NewLeaderboardRepository(db))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvent(t, ledger, "alice", 50, base)
	seedEvent(t, ledger, "bob", 50, base.AddDate(0, 0, 1))
	seedEvent(t, ledger, "carol", 30, base)

	entries, err := svc.Top(ctx, WindowAllTime, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	for _, entry := range entries {
		rank, total, err := svc.RankOf(ctx, entry.UserID, WindowAllTime)
		if err != nil {
			t.Fatalf("rank of %s: %v", entry.UserID, err)
		}
		if rank != entry.Rank {
			t.Errorf("rank of %s = %d, leaderboard says %d", entry.UserID, rank, entry.Rank)
		}
		if total != entry.TotalPoints {
			t.Errorf("total of %s = %d, leaderboard says %d", entry.UserID, total, entry.TotalPoints)
		}
	}

	// A user with no events ranks below everyone with points.
	rank, total, err := svc.RankOf(ctx, "nobody", WindowAllTime)
	if err != nil {
		t.Fatalf("rank of nobody: %v", err)
	}
	if total != 0 || rank != 4 {
		t.Errorf("nobody: rank=%d total=%d", rank, total)
	}
}

func TestLeaderboardWindows(t *testing.T) {
	db := newTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	svc := NewLeaderboardService(repository.NewLeaderboardRepository(db))
	ctx := context.Background()

	// 2026-03-10 is a Tuesday; the weekly window starts Monday 2026-03-09.
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	seedEvent(t, ledger, "alice", 50, time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)) // all-time only
	seedEvent(t, ledger, "alice", 20, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))  // monthly
	seedEvent(t, ledger, "alice", 10, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))  // weekly

	tests := []struct {
		window LeaderboardWindow
		want   int
	}{
		{WindowWeekly, 10},
		{WindowMonthly, 30},
		{WindowAllTime, 80},
	}
	for _, tt := range tests {
		_, total, err := svc.RankOf(ctx, "alice", tt.window)
		if err != nil {
			t.Fatalf("rank of alice (%s): %v", tt.window, err)
		}
		if total != tt.want {
			t.Errorf("window %s: total = %d, want %d", tt.window, total, tt.want)
		}
	}

	// The empty window name means all-time.
	_, total, err := svc.RankOf(ctx, "alice", "")
	if err != nil {
		t.Fatalf("rank with empty window: %v", err)
	}
	if total != 80 {
		t.Errorf("empty window total = %d, want 80", total)
	}

	var verr *domain.ValidationError
	if _, _, err := svc.RankOf(ctx, "alice", "yearly"); !errors.As(err, &verr) {
		t.Errorf("unknown window: expected validation error, got %v", err)
	}
	if _, err := svc.Top(ctx, "yearly", 10); !errors.As(err, &verr) {
		t.Errorf("unknown window top: expected validation error, got %v", err)
	}
}

func TestTop_LimitDefaults(t *testing.T) {
	db := newTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	svc := NewLeaderboardService(repository.NewLeaderboardRepository(db))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		seedEvent(t, ledger, "user-"+string(rune('a'+i)), (i+1)*10, base)
	}

	entries, err := svc.Top(ctx, WindowAllTime, 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("default limit: got %d entries, want 10", len(entries))
	}
	if entries[0].TotalPoints != 150 {
		t.Errorf("top total = %d, want 150", entries[0].TotalPoints)
	}
}
