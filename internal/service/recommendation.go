package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyemin/artmate/internal/cache"
	"github.com/hyemin/artmate/internal/config"
	"github.com/hyemin/artmate/internal/domain"
	"github.com/hyemin/artmate/internal/logger"
)

// LoaderError reports a failure of the injected candidate loader. The
// cache is left unmodified when this occurs; callers see the failure, not
// a poisoned entry.
type LoaderError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *LoaderError) Error() string {
	return fmt.Sprintf("candidate load for %s failed: %v", e.Key, e.Err)
}

// Unwrap returns the underlying loader error.
func (e *LoaderError) Unwrap() error {
	return e.Err
}

// CandidateLoader supplies the raw candidate set for a (category, subject)
// pair. The production implementation is the catalog client backed by the
// data service; tests inject stubs. Implementations must honor ctx.
type CandidateLoader interface {
	LoadCandidates(ctx context.Context, category, subject string) ([]domain.Candidate, error)
}

// RecommendationResponse is one page of ranked recommendations.
type RecommendationResponse struct {
	Subject  string                   `json:"subject"`
	Category string                   `json:"category"`
	Context  string                   `json:"context,omitempty"`
	Results  []domain.RankedCandidate `json:"results"`
	Total    int                      `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// RecommendationService fronts the ranker with the recommendation cache.
// The full ranked list for a (subject, category, context) triple is cached
// once; pagination happens at read time so every page shares one cache
// entry and one loader call.
type RecommendationService struct {
	cache  *cache.Cache
	loader CandidateLoader
	ranker *Ranker
	logger *logger.Logger
	ttl    time.Duration
}

// NewRecommendationService creates a new recommendation service.
// Parameters:
//   - c: recommendation cache.
//   - loader: candidate loader (the external data service).
//   - ranker: candidate ranker.
//   - log: logger instance.
//   - ttl: cache TTL for ranked lists.
// Returns:
//   - *RecommendationService: initialized service.
func NewRecommendationService(c *cache.Cache, loader CandidateLoader, ranker *Ranker, log *logger.Logger, ttl time.Duration) *RecommendationService {
	if log == nil {
		log = logger.GetDefault()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RecommendationService{
		cache:  c,
		loader: loader,
		ranker: ranker,
		logger: log,
		ttl:    ttl,
	}
}

// GetRecommendations returns a ranked page of candidates for the subject
// type within a category. A cache miss loads candidates once (coalesced
// across concurrent callers), ranks the full set, and caches the sorted
// list. Loader failures propagate with the cache left unmodified.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - subjectCode: subject's 4-letter APT code.
//   - category: candidate category, e.g. "artworks" or "artists".
//   - contextTag: optional context qualifier such as "trending".
//   - limit: page size; defaults to 20, capped at 100.
//   - offset: rows to skip.
// Returns:
//   - *RecommendationResponse: ranked page plus paging metadata.
//   - error: *domain.ValidationError for bad input, or the loader's error.
func (s *RecommendationService) GetRecommendations(ctx context.Context, subjectCode, category, contextTag string, limit, offset int) (*RecommendationResponse, error) {
	subject, err := domain.ParseTypeCode(subjectCode)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return nil, domain.NewValidationError("category", "must not be empty")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	key := cache.Key{Subject: subject.Code(), Category: category, Context: contextTag}
	payload, err := s.cache.GetOrLoad(ctx, key, s.ttl, func(loadCtx context.Context) ([]byte, error) {
		candidates, err := s.loader.LoadCandidates(loadCtx, category, subject.Code())
		if err != nil {
			return nil, &LoaderError{Key: key.String(), Err: err}
		}
		ranked := s.ranker.Rank(subject, candidates, 0, 0)
		return json.Marshal(ranked)
	})
	if err != nil {
		return nil, err
	}

	var ranked []domain.RankedCandidate
	if err := json.Unmarshal(payload, &ranked); err != nil {
		return nil, fmt.Errorf("failed to decode cached ranking for %s: %w", key.String(), err)
	}

	return &RecommendationResponse{
		Subject:  subject.Code(),
		Category: category,
		Context:  contextTag,
		Results:  page(ranked, limit, offset),
		Total:    len(ranked),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// GetCompatibility scores two type codes directly, without caching.
// Parameters:
//   - subjectCode: subject's APT code.
//   - targetCode: target's APT code.
// Returns:
//   - *domain.MatchResult: overall score and per-axis breakdown.
//   - error: *domain.ValidationError for a malformed code.
func (s *RecommendationService) GetCompatibility(subjectCode, targetCode string) (*domain.MatchResult, error) {
	subject, err := domain.ParseTypeCode(subjectCode)
	if err != nil {
		return nil, err
	}
	target, err := domain.ParseTypeCode(targetCode)
	if err != nil {
		return nil, err
	}
	return s.ranker.engine.Score(subject, target), nil
}

// WarmupStats summarizes one warmup run.
type WarmupStats struct {
	Requested int `json:"requested"`
	Warmed    int `json:"warmed"`
	Failed    int `json:"failed"`
}

// Warmup pre-populates the cache for a list of popular subject/category
// pairs by driving them through GetOrLoad. It runs synchronously; callers
// that need fire-and-forget semantics run it in a goroutine. Warmed
// entries compete for the same single-flight guarantee as foreground
// requests, so a warmup never duplicates an in-flight load.
// Parameters:
//   - ctx: context bounding the whole run.
//   - targets: subject/category pairs to populate.
// Returns:
//   - WarmupStats: per-run counts; failures are logged, not fatal.
func (s *RecommendationService) Warmup(ctx context.Context, targets []config.WarmupTarget) WarmupStats {
	stats := WarmupStats{Requested: len(targets)}
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		_, err := s.GetRecommendations(ctx, target.Subject, target.Category, target.Context, 1, 0)
		if err != nil {
			stats.Failed++
			logger.CtxWarn(ctx, "Warmup failed: subject=%s, category=%s, error=%v",
				target.Subject, target.Category, err)
			continue
		}
		stats.Warmed++
	}
	logger.CtxInfo(ctx, "Warmup finished: requested=%d, warmed=%d, failed=%d",
		stats.Requested, stats.Warmed, stats.Failed)
	return stats
}

// InvalidateCache removes entries matching a glob pattern.
func (s *RecommendationService) InvalidateCache(ctx context.Context, pattern string) (int, error) {
	if pattern == "" {
		return 0, domain.NewValidationError("pattern", "must not be empty")
	}
	return s.cache.Invalidate(ctx, pattern)
}

// InvalidateCategory clears a whole category namespace and its stats.
func (s *RecommendationService) InvalidateCategory(ctx context.Context, category string) (int, error) {
	if category == "" {
		return 0, domain.NewValidationError("category", "must not be empty")
	}
	return s.cache.InvalidateAll(ctx, category)
}

// CacheStats returns the cache hit/miss snapshot.
func (s *RecommendationService) CacheStats() cache.Stats {
	return s.cache.GetStats()
}
