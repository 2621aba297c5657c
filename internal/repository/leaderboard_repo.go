package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hyemin/artmate/internal/domain"
	"gorm.io/gorm"
)

// LeaderboardRepository computes read-time projections over the point
// ledger. Nothing here is stored: every result is rebuildable from the
// ledger entries alone.
type LeaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *LeaderboardRepository: repository instance bound to db.
func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// aggregateRow is the scan target for grouped ledger sums.
type aggregateRow struct {
	UserID      string
	TotalPoints int
	AchievedAt  time.Time
}

// Top returns the highest point totals accrued since the window start.
// Ordering is deterministic: total descending, then the user who reached
// that total first (earlier last award), then user ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - since: window start; zero time means all-time.
//   - limit: maximum number of rows.
// Returns:
//   - []domain.LeaderboardEntry: ranked rows, rank field unset.
//   - error: non-nil if the query fails.
func (r *LeaderboardRepository) Top(ctx context.Context, since time.Time, limit int) ([]domain.LeaderboardEntry, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.PointEvent{}).
		Select("user_id, SUM(points) AS total_points, MAX(created_at) AS achieved_at")
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var rows []aggregateRow
	err := query.
		Group("user_id").
		Order("total_points DESC, achieved_at ASC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{
			UserID:      row.UserID,
			TotalPoints: row.TotalPoints,
			AchievedAt:  row.AchievedAt,
		}
	}
	return entries, nil
}

// WindowTotal sums one user's points since the window start.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to total.
//   - since: window start; zero time means all-time.
// Returns:
//   - int: windowed sum, 0 for an unknown user.
//   - error: non-nil if the query fails.
func (r *LeaderboardRepository) WindowTotal(ctx context.Context, userID string, since time.Time) (int, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.PointEvent{}).
		Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(points), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum windowed points: %w", err)
	}
	return int(total), nil
}

// CountAbove counts users whose windowed total strictly exceeds the given
// total. Rank is 1 + this count, which keeps RankOf consistent with Top's
// ordering: ties share a rank.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - total: windowed point total to compare against.
//   - since: window start; zero time means all-time.
// Returns:
//   - int: number of users strictly above total.
//   - error: non-nil if the query fails.
func (r *LeaderboardRepository) CountAbove(ctx context.Context, total int, since time.Time) (int, error) {
	sub := r.db.
		Model(&domain.PointEvent{}).
		Select("user_id, SUM(points) AS total_points")
	if !since.IsZero() {
		sub = sub.Where("created_at >= ?", since)
	}
	sub = sub.Group("user_id")

	var count int64
	err := r.db.WithContext(ctx).
		Table("(?) AS totals", sub).
		Where("total_points > ?", total).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count higher totals: %w", err)
	}
	return int(count), nil
}
