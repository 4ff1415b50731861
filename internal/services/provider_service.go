package services

import (
	"context"
	"time"

	"github.com/gobarber/gobarber-client/internal/cache"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
)

// ProviderService lists the providers shown on the dashboard
type ProviderService struct {
	store session.Store
	cache *cache.ProvidersCache
}

// NewProviderService creates a provider service caching results for ttl
func NewProviderService(api ProvidersAPI, store session.Store, ttl time.Duration) *ProviderService {
	return &ProviderService{
		store: store,
		cache: cache.NewProvidersCache(ttl, api.ListProviders),
	}
}

// List returns providers other than the signed-in user
func (s *ProviderService) List(ctx context.Context) ([]models.Provider, error) {
	current := s.store.Current()
	if current.IsZero() {
		return nil, apperrors.ErrNoSession
	}
	return s.cache.Get(ctx, current.User.ID, current.Token)
}
