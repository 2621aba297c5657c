package domain

import "time"

// ActivityType enumerates the point-awarding user activities. The set is
// closed: anything outside the catalog is rejected at the service boundary.
type ActivityType string

const (
	ActivityDailyLogin       ActivityType = "DAILY_LOGIN"
	ActivityArtworkView      ActivityType = "ARTWORK_VIEW"
	ActivityArtworkLike      ActivityType = "ARTWORK_LIKE"
	ActivityQuizComplete     ActivityType = "QUIZ_COMPLETE"
	ActivityExhibitionVisit  ActivityType = "EXHIBITION_VISIT"
	ActivityExhibitionReview ActivityType = "EXHIBITION_REVIEW"
	ActivityProfileComplete  ActivityType = "PROFILE_COMPLETE"
	ActivityFollowUser       ActivityType = "FOLLOW_USER"
)

// ActivityRule declares how one activity type is scored and capped.
// Exactly one of DailyCap or PerTargetOnce is set per rule: a daily-capped
// activity counts at most DailyCap events per calendar day; a
// per-target-once activity awards at most once per distinct target entity.
type ActivityRule struct {
	Points        int
	DailyCap      int
	PerTargetOnce bool
}

// ActivityCatalog is the fixed rule set for every known activity.
var ActivityCatalog = map[ActivityType]ActivityRule{
	ActivityDailyLogin:       {Points: 10, DailyCap: 1},
	ActivityArtworkView:      {Points: 1, DailyCap: 20},
	ActivityArtworkLike:      {Points: 5, PerTargetOnce: true},
	ActivityQuizComplete:     {Points: 50, PerTargetOnce: true},
	ActivityExhibitionVisit:  {Points: 15, DailyCap: 3},
	ActivityExhibitionReview: {Points: 20, PerTargetOnce: true},
	ActivityProfileComplete:  {Points: 30, PerTargetOnce: true},
	ActivityFollowUser:       {Points: 3, PerTargetOnce: true},
}

// Rule looks up the catalog entry for an activity type.
// Parameters:
//   - activity: activity type to look up.
// Returns:
//   - ActivityRule: matching rule.
//   - bool: false if the activity is not in the catalog.
func Rule(activity ActivityType) (ActivityRule, bool) {
	r, ok := ActivityCatalog[activity]
	return r, ok
}

// PointEvent is one append-only ledger entry. Entries are never edited or
// deleted; the unique index on IdempotencyKey is the concurrency primitive
// that makes awarding race-safe.
type PointEvent struct {
	ID             string       `gorm:"type:text;primaryKey" json:"id"`
	UserID         string       `gorm:"type:text;not null;index:idx_point_events_user" json:"user_id"`
	Activity       ActivityType `gorm:"type:text;not null" json:"activity"`
	Points         int          `gorm:"not null" json:"points"`
	TargetID       string       `gorm:"type:text" json:"target_id,omitempty"`
	IdempotencyKey string       `gorm:"type:text;not null;uniqueIndex:idx_point_events_idem" json:"idempotency_key"`
	CreatedAt      time.Time    `gorm:"index:idx_point_events_created" json:"created_at"`
}

// TableName returns the database table name for PointEvent.
func (PointEvent) TableName() string {
	return "point_events"
}

// LeaderboardEntry is one row of the leaderboard projection: a user's point
// total within a window plus the timestamp of the award that produced it.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	Level       int       `json:"level"`
	AchievedAt  time.Time `json:"achieved_at"`
}
