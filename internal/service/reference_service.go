package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/repository"
	"surething-api/internal/store"

	"go.uber.org/zap"
)

const (
	districtsCacheKey = "ref:districts"
	regionsCacheKey   = "ref:regions"
)

// ReferenceService read-only districts and regions. The tables change only
// through out-of-band administration, so listings are served read-through
// from the cache when one is configured.
type ReferenceService interface {
	ListDistricts(ctx context.Context) ([]*domain.District, error)
	ListRegions(ctx context.Context) ([]*domain.Region, error)
	GetDistrict(ctx context.Context, id int64) (*domain.District, error)
	GetRegion(ctx context.Context, id int64) (*domain.Region, error)
}

type referenceService struct {
	repo     repository.ReferenceRepository
	cache    store.KV // nil when caching is disabled
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewReferenceService(repo repository.ReferenceRepository, cache store.KV, cacheTTL time.Duration, logger *zap.Logger) ReferenceService {
	return &referenceService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *referenceService) ListDistricts(ctx context.Context) ([]*domain.District, error) {
	var cached []*domain.District
	if s.readCache(ctx, districtsCacheKey, &cached) {
		return cached, nil
	}

	districts, err := s.repo.ListDistricts(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, districtsCacheKey, districts)
	return districts, nil
}

func (s *referenceService) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	var cached []*domain.Region
	if s.readCache(ctx, regionsCacheKey, &cached) {
		return cached, nil
	}

	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, regionsCacheKey, regions)
	return regions, nil
}

func (s *referenceService) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	district, err := s.repo.GetDistrict(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return district, nil
}

func (s *referenceService) GetRegion(ctx context.Context, id int64) (*domain.Region, error) {
	region, err := s.repo.GetRegion(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (s *referenceService) readCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), out) == nil
}

func (s *referenceService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache reference data", zap.String("key", key), zap.Error(err))
	}
}
