package cache

import (
	"context"
	"time"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const cacheName = "providers"

// ProvidersFetcher loads the provider list for the user behind token
type ProvidersFetcher func(ctx context.Context, token string) ([]models.Provider, error)

// ProvidersCache keeps provider lists per user for a short TTL
type ProvidersCache struct {
	cache *gocache.Cache
	fetch ProvidersFetcher
}

// NewProvidersCache creates a new providers cache
func NewProvidersCache(ttl time.Duration, fetch ProvidersFetcher) *ProvidersCache {
	return &ProvidersCache{
		cache: gocache.New(ttl, 2*ttl),
		fetch: fetch,
	}
}

// Get retrieves providers from cache or fetches them on a miss
func (pc *ProvidersCache) Get(ctx context.Context, userID, token string) ([]models.Provider, error) {
	if data, found := pc.cache.Get(userID); found {
		if providers, ok := data.([]models.Provider); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			return providers, nil
		}
		logger.Error("Invalid providers cache data type")
		pc.cache.Delete(userID)
	}

	metrics.CacheMisses.WithLabelValues(cacheName).Inc()
	logger.Debug("Providers cache miss", zap.String("user_id", userID))

	providers, err := pc.fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	pc.cache.SetDefault(userID, providers)
	return providers, nil
}

// Invalidate drops the cached list for userID
func (pc *ProvidersCache) Invalidate(userID string) {
	pc.cache.Delete(userID)
}
