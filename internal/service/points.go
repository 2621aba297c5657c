package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/logger"
	"github.com/hyemin/artmate/internal/repository"
)

// idemNamespace seeds the deterministic idempotency key UUIDs.
var idemNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("points.artmate"))

// idempotencyKey derives a stable UUID from the capping-window identity of
// an award: same inputs always produce the same key.
func idempotencyKey(parts ...string) string {
	return uuid.NewSHA1(idemNamespace, []byte(strings.Join(parts, "|"))).String()
}

// AwardResult reports the outcome of one award attempt. A capped or
// already-awarded attempt is a normal result with Awarded 0, not an error.
type AwardResult struct {
	Awarded      int  `json:"awarded"`
	NewTotal     int  `json:"new_total"`
	LimitReached bool `json:"limit_reached"`
	Level        int  `json:"level"`
}

// UserPoints is the derived progression view for one user. Level is always
// recomputed from the ledger total, never trusted from storage.
type UserPoints struct {
	UserID            string `json:"user_id"`
	TotalPoints       int    `json:"total_points"`
	Level             int    `json:"level"`
	PointsToNextLevel int    `json:"points_to_next_level"`
}

// PointsService owns point awarding and level derivation over the
// append-only ledger.
type PointsService struct {
	ledger *repository.LedgerRepository
	logger *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewPointsService creates a new points service.
// Parameters:
//   - ledger: ledger repository.
//   - log: logger instance.
// Returns:
//   - *PointsService: initialized service.
func NewPointsService(ledger *repository.LedgerRepository, log *logger.Logger) *PointsService {
	if log == nil {
		log = logger.GetDefault()
	}
	return &PointsService{
		ledger: ledger,
		logger: log,
		now:    time.Now,
	}
}

// Award records a point-awarding event idempotently. For per-target
// activities the idempotency key covers (user, activity, target); for
// daily-capped activities it covers (user, activity, UTC day, occurrence
// slot). The ledger's unique constraint arbitrates concurrent calls, so a
// duplicate never double-counts even under simultaneous requests. A
// duplicate or capped attempt returns Awarded 0 and LimitReached true.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: acting user.
//   - activity: enumerated activity type.
//   - targetID: target entity for per-target activities; ignored for
//     daily-capped ones.
// Returns:
//   - *AwardResult: points awarded, authoritative new total, limit flag.
//   - error: *domain.ValidationError for unknown activity or missing
//     fields; wrapped repository error on storage failure.
func (s *PointsService) Award(ctx context.Context, userID string, activity domain.ActivityType, targetID string) (*AwardResult, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "must not be empty")
	}
	rule, ok := domain.Rule(activity)
	if !ok {
		return nil, domain.NewValidationError("activity", "unknown activity type %q", activity)
	}
	if rule.PerTargetOnce && targetID == "" {
		return nil, domain.NewValidationError("target_id", "required for activity %q", activity)
	}

	now := s.now().UTC()
	event := &domain.PointEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Activity:  activity,
		Points:    rule.Points,
		TargetID:  targetID,
		CreatedAt: now,
	}

	inserted := false
	if rule.PerTargetOnce {
		event.IdempotencyKey = idempotencyKey(userID, string(activity), targetID)
		var err error
		inserted, err = s.ledger.InsertUnique(ctx, event)
		if err != nil {
			return nil, err
		}
	} else {
		// Each calendar day has DailyCap occurrence slots; the unique index
		// decides which caller wins each slot.
		day := now.Format("2006-01-02")
		for slot := 0; slot < rule.DailyCap; slot++ {
			event.IdempotencyKey = idempotencyKey(userID, string(activity), day, strconv.Itoa(slot))
			var err error
			inserted, err = s.ledger.InsertUnique(ctx, event)
			if err != nil {
				return nil, err
			}
			if inserted {
				break
			}
		}
	}

	total, err := s.ledger.TotalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &AwardResult{
		NewTotal:     total,
		LimitReached: !inserted,
		Level:        Level(total),
	}
	if inserted {
		result.Awarded = rule.Points
		logger.CtxInfo(ctx, "Points awarded: user=%s, activity=%s, points=%d, total=%d",
			userID, activity, rule.Points, total)
	}
	return result, nil
}

// GetUserPoints returns the derived progression view for a user.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user to look up.
// Returns:
//   - *UserPoints: total, level, and distance to next level.
//   - error: non-nil if the ledger query fails.
func (s *PointsService) GetUserPoints(ctx context.Context, userID string) (*UserPoints, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "must not be empty")
	}
	total, err := s.ledger.TotalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserPoints{
		UserID:            userID,
		TotalPoints:       total,
		Level:             Level(total),
		PointsToNextLevel: PointsToNextLevel(total),
	}, nil
}

// History returns a user's ledger entries, newest first.
func (s *PointsService) History(ctx context.Context, userID string, limit, offset int) ([]domain.PointEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}

// Level derives the user level from a point total:
// floor(sqrt(total/10)) + 1. Pure and side-effect free.
func Level(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return int(math.Floor(math.Sqrt(float64(totalPoints)/10))) + 1
}

// PointsToNextLevel derives how many points remain until the next level:
// level^2 * 10 - total, floored at 0.
func PointsToNextLevel(totalPoints int) int {
	level := Level(totalPoints)
	remaining := level*level*10 - totalPoints
	if remaining < 0 {
		return 0
	}
	return remaining
}
