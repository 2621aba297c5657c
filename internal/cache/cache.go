// Package cache implements the recommendation cache: a cache-aside layer
// with single-flight loading, two storage tiers (in-process memory plus
// optional Redis), glob invalidation, and per-category hit/miss accounting.
package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hyemin/artmate/internal/logger"
)

// ErrInvalidTTL is returned when GetOrLoad is called with a zero or
// negative TTL. A bounded TTL is mandatory for every entry.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// Store is one cache tier. Implementations must be safe for concurrent use
// and atomic per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) (int, error)
}

// Loader produces the payload for a missing key. It is supplied by the
// caller (ultimately the persistence layer) and must honor ctx deadlines.
type Loader func(ctx context.Context) ([]byte, error)

// Cache is the cache-aside facade. Lookups go memory tier first, then
// Redis; a miss runs the loader under a per-key single-flight group so
// concurrent requests for the same missing key trigger exactly one load.
// Either tier may be nil: with no tiers at all the cache runs degraded and
// every call falls through to the loader.
type Cache struct {
	l1     Store
	l2     Store
	group  singleflight.Group
	stats  *statsRegistry
	logger *logger.Logger
}

// New creates a Cache over the given tiers.
// Parameters:
//   - l1: fast in-process tier; may be nil.
//   - l2: shared tier (Redis); may be nil.
//   - log: logger instance.
// Returns:
//   - *Cache: initialized cache.
func New(l1, l2 Store, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Cache{
		l1:     l1,
		l2:     l2,
		stats:  newStatsRegistry(),
		logger: log,
	}
}

// Degraded reports whether the cache has no usable tier.
func (c *Cache) Degraded() bool {
	return c.l1 == nil && c.l2 == nil
}

// GetOrLoad returns the cached payload for key, running loader on a miss
// and populating both tiers with the result. Concurrent callers for the
// same missing key coalesce into one loader invocation; callers for
// different keys proceed fully in parallel. A failed load leaves the cache
// unmodified and is propagated to every coalesced caller.
// Parameters:
//   - ctx: context for cancellation; passed through to the loader.
//   - key: composite cache key.
//   - ttl: entry lifetime; must be positive.
//   - loader: payload producer for a miss.
// Returns:
//   - []byte: cached or freshly loaded payload.
//   - error: ErrInvalidTTL, or the loader's error.
func (c *Cache) GetOrLoad(ctx context.Context, key Key, ttl time.Duration, loader Loader) ([]byte, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	k := key.String()

	if payload, ok := c.lookup(ctx, k); ok {
		c.stats.hit(key.Category)
		return payload, nil
	}

	// Miss is counted per caller, before the load runs.
	c.stats.miss(key.Category)

	if c.Degraded() {
		return loader(ctx)
	}

	payload, err, _ := c.group.Do(k, func() (interface{}, error) {
		loaded, err := loader(ctx)
		if err != nil {
			// Failed loads never poison the cache.
			return nil, err
		}
		c.populate(ctx, k, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return payload.([]byte), nil
}

// lookup checks the tiers in order, promoting an L2 hit into L1. Tier
// errors degrade to a miss.
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	if c.l1 != nil {
		payload, ok, err := c.l1.Get(ctx, key)
		if err != nil {
			logger.CtxWarn(ctx, "Memory tier lookup failed: key=%s, error=%v", key, err)
		} else if ok {
			return payload, true
		}
	}
	if c.l2 != nil {
		payload, ok, err := c.l2.Get(ctx, key)
		if err != nil {
			logger.CtxWarn(ctx, "Redis tier lookup failed, degrading: key=%s, error=%v", key, err)
			return nil, false
		}
		if ok {
			if c.l1 != nil {
				// Promotion TTL is the default entry TTL of the facade caller;
				// the shared tier remains authoritative for expiry.
				_ = c.l1.Set(ctx, key, payload, promotionTTL)
			}
			return payload, true
		}
	}
	return nil, false
}

// promotionTTL bounds how long an entry promoted from the shared tier may
// outlive its Redis copy in local memory.
const promotionTTL = time.Minute

func (c *Cache) populate(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if c.l1 != nil {
		if err := c.l1.Set(ctx, key, payload, ttl); err != nil {
			logger.CtxWarn(ctx, "Memory tier set failed: key=%s, error=%v", key, err)
		}
	}
	if c.l2 != nil {
		if err := c.l2.Set(ctx, key, payload, ttl); err != nil {
			logger.CtxWarn(ctx, "Redis tier set failed: key=%s, error=%v", key, err)
		}
	}
}

// Invalidate removes every entry whose key matches the glob pattern.
// Parameters:
//   - ctx: context for cancellation.
//   - pattern: glob over rendered keys, e.g. "rec:artworks:LAEF*".
// Returns:
//   - int: number of entries removed.
//   - error: non-nil if a tier delete fails.
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int, error) {
	removed := 0
	counted := false
	if c.l1 != nil {
		n, err := c.l1.DeleteMatching(ctx, pattern)
		if err != nil {
			return n, err
		}
		removed = n
		counted = true
	}
	if c.l2 != nil {
		n, err := c.l2.DeleteMatching(ctx, pattern)
		if err != nil {
			logger.CtxWarn(ctx, "Redis tier invalidation failed: pattern=%s, error=%v", pattern, err)
		} else if !counted {
			removed = n
		}
	}
	return removed, nil
}

// InvalidateAll clears an entire category namespace and resets that
// namespace's hit/miss counters. Counters of other categories are
// untouched. This is deliberately a separate operation from Invalidate,
// which never resets stats.
// Parameters:
//   - ctx: context for cancellation.
//   - category: namespace to clear.
// Returns:
//   - int: number of entries removed.
//   - error: non-nil if a tier delete fails.
func (c *Cache) InvalidateAll(ctx context.Context, category string) (int, error) {
	removed, err := c.Invalidate(ctx, NamespacePattern(category))
	if err != nil {
		return removed, err
	}
	c.stats.reset(category)
	return removed, nil
}

// GetStats returns the current hit/miss counter snapshot.
func (c *Cache) GetStats() Stats {
	return c.stats.snapshot()
}
