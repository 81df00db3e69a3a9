package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/repository"
	"surething-api/internal/store"

	"go.uber.org/zap"
)

const categoriesCacheKey = "ref:categories"

// CategoryService category CRUD with a cached List. Mutations invalidate the
// cached listing so readers never see a deleted or renamed category for
// longer than one request.
type CategoryService interface {
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Category, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type categoryService struct {
	repo     repository.CategoriesRepository
	cache    store.KV // nil when caching is disabled
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewCategoryService(repo repository.CategoriesRepository, cache store.KV, cacheTTL time.Duration, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	candidate := domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, &candidate)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, categoriesCacheKey); err == nil {
			var out []*domain.Category
			if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
				return out, nil
			}
			// corrupt cache entry, fall through to the database
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, categoriesCacheKey, string(encoded), s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache categories", zap.Error(err))
			}
		}
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Category, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	cols := map[string]any{}
	var violations []string
	if raw, ok := fields["name"]; ok {
		if v, ok := raw.(string); ok {
			merged.Name = strings.TrimSpace(v)
			cols["name"] = merged.Name
		} else {
			violations = append(violations, "name must be a string")
		}
	}
	if raw, ok := fields["description"]; ok {
		if raw == nil {
			merged.Description = nil
			cols["description"] = nil
		} else if v, ok := raw.(string); ok {
			merged.Description = &v
			cols["description"] = v
		} else {
			violations = append(violations, "description must be a string or null")
		}
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if len(cols) > 0 {
		if err := s.repo.Update(ctx, id, cols); err != nil {
			return nil, err
		}
		s.invalidate(ctx)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.invalidate(ctx)
	return true, nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, categoriesCacheKey); err != nil {
		s.logger.Warn("failed to invalidate categories cache", zap.Error(err))
	}
}
