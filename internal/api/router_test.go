package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hyemin/artmate/internal/cache"
	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/logger"
	"github.com/hyemin/artmate/internal/repository"
	"github.com/hyemin/artmate/internal/service"
)

// fixedLoader serves a static candidate set regardless of inputs.
type fixedLoader struct {
	candidates []domain.Candidate
}

func (f *fixedLoader) LoadCandidates(_ context.Context, _, _ string) ([]domain.Candidate, error) {
	return f.candidates, nil
}

func newTestRouter(t *testing.T) http.Handler {
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

	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)

	log := logger.GetDefault()
	engine := service.NewCompatibilityService(nil)
	loader := &fixedLoader{candidates: []domain.Candidate{
		{
			ID:   "artwork-1",
			Kind: domain.CandidateArtwork,
			Profile: domain.WeightedProfile{
				PrimaryTypes: []domain.TypeWeight{{Code: "LAEF", Weight: 0.9}},
				Confidence:   0.85,
			},
		},
	}}

	recommendations := service.NewRecommendationService(
		cache.New(store, nil, log), loader, service.NewRanker(engine), log, time.Minute)
	points := service.NewPointsService(repository.NewLedgerRepository(db), log)
	leaderboard := service.NewLeaderboardService(repository.NewLeaderboardRepository(db))

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORS.AllowAllOrigins = true

	return SetupRouter(recommendations, points, leaderboard, cfg, log)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/recommendations?subject=LAEF&category=artworks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []domain.RankedCandidate `json:"results"`
		Total   int                      `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].CandidateID != "artwork-1" {
		t.Errorf("response: %+v", resp)
	}

	// Missing required parameters.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/recommendations?subject=LAEF", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing category: status = %d", rec.Code)
	}
	// Malformed subject code.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/recommendations?subject=ZZZZ&category=artworks", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad code: status = %d", rec.Code)
	}
}

func TestCompatibilityEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/compatibility?subject=LAEF&target=LAEF", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var result domain.MatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 85 {
		t.Errorf("score = %d, want 85", result.Score)
	}
}

func TestPointsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	award := map[string]string{"user_id": "user-1", "activity": "QUIZ_COMPLETE", "target_id": "quiz-1"}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/points/award", award)
	if rec.Code != http.StatusOK {
		t.Fatalf("award status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var result service.AwardResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Awarded != 50 {
		t.Errorf("awarded = %d, want 50", result.Awarded)
	}

	// Repeat is a 200 with awarded 0, not an error status.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/points/award", award)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Awarded != 0 || !result.LimitReached {
		t.Errorf("repeat result: %+v", result)
	}

	// Unknown activity maps to 400.
	bad := map[string]string{"user_id": "user-1", "activity": "NOT_A_THING"}
	rec = doJSON(t, router, http.MethodPost, "/api/v1/points/award", bad)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown activity status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/points/user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("points status = %d", rec.Code)
	}
	var points service.UserPoints
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if points.TotalPoints != 50 || points.Level != 3 {
		t.Errorf("points: %+v", points)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/points/user-1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
}

func TestLeaderboardEndpoints(t *testing.T) {
	router := newTestRouter(t)

	award := map[string]string{"user_id": "user-1", "activity": "QUIZ_COMPLETE", "target_id": "quiz-1"}
	if rec := doJSON(t, router, http.MethodPost, "/api/v1/points/award", award); rec.Code != http.StatusOK {
		t.Fatalf("seed award status = %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/leaderboard?window=all-time", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var board struct {
		Entries []domain.LeaderboardEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].Rank != 1 {
		t.Errorf("board: %+v", board)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/leaderboard/rank/user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rank status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/leaderboard?window=yearly", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown window status = %d", rec.Code)
	}
}

func TestAdminCacheEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// Prime the cache, then invalidate its namespace.
	if rec := doJSON(t, router, http.MethodGet, "/api/v1/recommendations?subject=LAEF&category=artworks", nil); rec.Code != http.StatusOK {
		t.Fatalf("prime status = %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/admin/cache/invalidate", map[string]string{"pattern": "rec:artworks:*"})
	if rec.Code != http.StatusOK {
		t.Fatalf("invalidate status = %d, body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/cache/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats cache.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalMisses != 1 {
		t.Errorf("misses = %d, want 1", stats.TotalMisses)
	}
}
