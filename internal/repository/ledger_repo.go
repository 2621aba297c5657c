package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hyemin/artmate/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository handles the append-only point event ledger.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *LedgerRepository: repository instance bound to db.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// InsertUnique appends a ledger entry unless one with the same idempotency
// key already exists. The unique index on idempotency_key arbitrates
// concurrent inserts; a conflict is reported as inserted=false, not as an
// error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - event: ledger entry to append.
// Returns:
//   - bool: true if the entry was inserted, false on idempotency conflict.
//   - error: non-nil if the insert fails for any other reason.
func (r *LedgerRepository) InsertUnique(ctx context.Context, event *domain.PointEvent) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert point event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// TotalPoints sums every ledger entry for a user. This is the authoritative
// total; it is recomputed from the ledger rather than maintained as a
// separately stored counter.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to total.
// Returns:
//   - int: sum of points, 0 for an unknown user.
//   - error: non-nil if the query fails.
func (r *LedgerRepository) TotalPoints(ctx context.Context, userID string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.PointEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return int(total), nil
}

// CountForDay counts a user's ledger entries of one activity within a UTC
// calendar day.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to count.
//   - activity: activity type to count.
//   - day: any instant within the calendar day of interest (UTC).
// Returns:
//   - int: matching entry count.
//   - error: non-nil if the query fails.
func (r *LedgerRepository) CountForDay(ctx context.Context, userID string, activity domain.ActivityType, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PointEvent{}).
		Where("user_id = ? AND activity = ? AND created_at >= ? AND created_at < ?", userID, activity, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return int(count), nil
}

// ListByUser retrieves a user's ledger entries, newest first, paginated.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to list.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.PointEvent: matching entries.
//   - error: non-nil if the query fails.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.PointEvent, error) {
	var events []domain.PointEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
