package cache

import "sync"

// CategoryStats holds monotonically increasing hit/miss counters for one
// category namespace. Counters reset only on explicit admin action.
type CategoryStats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Stats is the aggregated counter snapshot returned to callers.
type Stats struct {
	PerCategory map[string]CategoryStats `json:"per_category"`
	TotalHits   uint64                   `json:"total_hits"`
	TotalMisses uint64                   `json:"total_misses"`
	HitRate     float64                  `json:"hit_rate"`
}

// statsRegistry tracks hit/miss counters per category under a mutex.
type statsRegistry struct {
	mu       sync.Mutex
	counters map[string]*counter
}

type counter struct {
	hits   uint64
	misses uint64
}

func newStatsRegistry() *statsRegistry {
	return &statsRegistry{counters: make(map[string]*counter)}
}

func (s *statsRegistry) hit(category string) {
	s.mu.Lock()
	s.counterFor(category).hits++
	s.mu.Unlock()
}

func (s *statsRegistry) miss(category string) {
	s.mu.Lock()
	s.counterFor(category).misses++
	s.mu.Unlock()
}

// counterFor must be called with mu held.
func (s *statsRegistry) counterFor(category string) *counter {
	c, ok := s.counters[category]
	if !ok {
		c = &counter{}
		s.counters[category] = c
	}
	return c
}

// reset clears the counters for a single category namespace only.
func (s *statsRegistry) reset(category string) {
	s.mu.Lock()
	delete(s.counters, category)
	s.mu.Unlock()
}

// snapshot computes the Stats view. Hit rate is 0, never NaN, for a
// category that has seen no requests.
func (s *statsRegistry) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Stats{PerCategory: make(map[string]CategoryStats, len(s.counters))}
	for category, c := range s.counters {
		out.PerCategory[category] = CategoryStats{
			Hits:    c.hits,
			Misses:  c.misses,
			HitRate: hitRate(c.hits, c.misses),
		}
		out.TotalHits += c.hits
		out.TotalMisses += c.misses
	}
	out.HitRate = hitRate(out.TotalHits, out.TotalMisses)
	return out
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
