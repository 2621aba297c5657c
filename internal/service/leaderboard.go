package service

import (
	"context"
	"time"

	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/repository"
)

// LeaderboardWindow selects the time window of a leaderboard query.
type LeaderboardWindow string

const (
	WindowWeekly  LeaderboardWindow = "weekly"
	WindowMonthly LeaderboardWindow = "monthly"
	WindowAllTime LeaderboardWindow = "all-time"
)

// LeaderboardService projects rankings from the point ledger. Ranking and
// RankOf share the same aggregation queries, so the two can never diverge.
type LeaderboardService struct {
	repo *repository.LeaderboardRepository

	// now is swappable for tests.
	now func() time.Time
}

// NewLeaderboardService creates a new leaderboard service.
// Parameters:
//   - repo: leaderboard projection repository.
// Returns:
//   - *LeaderboardService: initialized service.
func NewLeaderboardService(repo *repository.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{repo: repo, now: time.Now}
}

// windowStart resolves a window name to its UTC calendar start. Weekly
// windows begin on Monday; monthly windows on the first of the month;
// all-time is the zero time.
func (s *LeaderboardService) windowStart(window LeaderboardWindow) (time.Time, error) {
	now := s.now().UTC()
	switch window {
	case WindowWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday belongs to the week that started last Monday
		}
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -(weekday - 1)), nil
	case WindowMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case WindowAllTime, "":
		return time.Time{}, nil
	default:
		return time.Time{}, domain.NewValidationError("window", "unknown window %q", window)
	}
}

// Top returns the highest point totals within the window, ranked. Users
// with equal totals share a rank, consistent with RankOf.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - window: weekly, monthly, or all-time.
//   - limit: maximum rows; defaults to 10, capped at 100.
// Returns:
//   - []domain.LeaderboardEntry: ranked rows.
//   - error: *domain.ValidationError for an unknown window, or a query
//     error.
func (s *LeaderboardService) Top(ctx context.Context, window LeaderboardWindow, limit int) ([]domain.LeaderboardEntry, error) {
	since, err := s.windowStart(window)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := s.repo.Top(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
		entries[i].Level = Level(entries[i].TotalPoints)
	}
	return entries, nil
}

// RankOf computes a user's rank within the window as 1 plus the number of
// users with a strictly greater windowed total.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to rank.
//   - window: weekly, monthly, or all-time.
// Returns:
//   - int: 1-based rank.
//   - int: the user's windowed total.
//   - error: *domain.ValidationError for bad input, or a query error.
func (s *LeaderboardService) RankOf(ctx context.Context, userID string, window LeaderboardWindow) (int, int, error) {
	if userID == "" {
		return 0, 0, domain.NewValidationError("user_id", "must not be empty")
	}
	since, err := s.windowStart(window)
	if err != nil {
		return 0, 0, err
	}

	total, err := s.repo.WindowTotal(ctx, userID, since)
	if err != nil {
		return 0, 0, err
	}
	above, err := s.repo.CountAbove(ctx, total, since)
	if err != nil {
		return 0, 0, err
	}
	return above + 1, total, nil
}
