package places

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/models"
)

const (
	catalogCacheKey = "catalog:active"
	catalogTTL      = 5 * time.Minute
)

// Service fronts the catalog repository with a short-lived cache. The catalog
// changes through admin tooling at human pace, so serving a slightly stale
// copy to the prompt builder is fine.
type Service struct {
	repo   Repository
	cache  *gocache.Cache
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  gocache.New(catalogTTL, 10*time.Minute),
		logger: logger,
	}
}

// GetActivePlaces returns the active catalog, cached for a few minutes.
func (s *Service) GetActivePlaces(ctx context.Context) ([]models.PlaceRecord, error) {
	if cached, found := s.cache.Get(catalogCacheKey); found {
		if records, ok := cached.([]models.PlaceRecord); ok {
			return records, nil
		}
	}

	records, err := s.repo.GetActivePlaces(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(catalogCacheKey, records, gocache.DefaultExpiration)
	s.logger.Debug("Place catalog refreshed", zap.Int("count", len(records)))
	return records, nil
}

// CatalogSample returns at most limit places for prompt grounding.
func (s *Service) CatalogSample(ctx context.Context, limit int) ([]models.PlaceRecord, error) {
	records, err := s.GetActivePlaces(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
