package opencage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mozillazg/go-unidecode"
	"go.uber.org/zap"
)

// SharedCache is a second cache level shared between service instances.
type SharedCache interface {
	Get(ctx context.Context, key string) ([]domain.Candidate, bool, error)
	Set(ctx context.Context, key string, candidates []domain.Candidate) error
}

// CachedProvider wraps a GeocodingProvider with an in-memory expiring LRU
// and, optionally, a SharedCache behind it.
type CachedProvider struct {
	inner   domain.GeocodingProvider
	memory  *expirable.LRU[string, []domain.Candidate]
	shared  SharedCache
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCachedProvider creates a cache decorator around a provider. shared may be nil.
func NewCachedProvider(inner domain.GeocodingProvider, maxEntries int, ttl time.Duration, shared SharedCache, metrics *observability.Metrics, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		memory:  expirable.NewLRU[string, []domain.Candidate](maxEntries, nil, ttl),
		shared:  shared,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedProvider) Query(ctx context.Context, text string, opts domain.QueryOptions) ([]domain.Candidate, error) {
	key := cacheKey(text, opts)
	if candidates, ok := c.memory.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("memory", "hit").Inc()
		return candidates, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("memory", "miss").Inc()

	if c.shared != nil {
		candidates, ok, err := c.shared.Get(ctx, key)
		switch {
		case err != nil:
			c.metrics.GeocodeCache.WithLabelValues("redis", "error").Inc()
			c.logger.Warn("shared cache lookup failed", zap.String("key", key), zap.Error(err))
		case ok:
			c.metrics.GeocodeCache.WithLabelValues("redis", "hit").Inc()
			c.memory.Add(key, candidates)
			return candidates, nil
		default:
			c.metrics.GeocodeCache.WithLabelValues("redis", "miss").Inc()
		}
	}

	candidates, err := c.inner.Query(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(candidates) > 0 {
		c.memory.Add(key, candidates)
		if c.shared != nil {
			if err := c.shared.Set(ctx, key, candidates); err != nil {
				c.logger.Warn("shared cache store failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return candidates, nil
}

// cacheKey folds case, accents and spacing so trivially different spellings of
// the same query share an entry.
func cacheKey(text string, opts domain.QueryOptions) string {
	q := strings.Join(strings.Fields(strings.ToLower(unidecode.Unidecode(text))), " ")
	return fmt.Sprintf("fwd:%s|%s|%s|%d", q, opts.CountryCode, opts.Language, opts.Limit)
}
