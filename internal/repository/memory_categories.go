package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"surething-api/internal/domain"
)

// MemoryCategoriesRepo in-memory CategoriesRepository used when the DB is
// disabled and in unit tests.
type MemoryCategoriesRepo struct {
	mu         sync.RWMutex
	nextID     int64
	categories map[int64]domain.Category
}

func NewMemoryCategoriesRepo() *MemoryCategoriesRepo {
	return &MemoryCategoriesRepo{
		nextID:     1,
		categories: map[int64]domain.Category{},
	}
}

func (r *MemoryCategoriesRepo) Create(_ context.Context, category *domain.Category) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.categories {
		if strings.EqualFold(stored.Name, category.Name) {
			return 0, ErrDuplicate
		}
	}

	stored := *category
	stored.ID = r.nextID
	r.nextID++
	r.categories[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemoryCategoriesRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *MemoryCategoriesRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.categories {
		if strings.EqualFold(stored.Name, name) {
			out := stored
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCategoriesRepo) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Category{}
	for _, stored := range r.categories {
		item := stored
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCategoriesRepo) Update(_ context.Context, id int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.categories[id]
	if !ok {
		return ErrNotFound
	}

	if val, found := fields["name"]; found {
		if v, ok := val.(string); ok {
			for otherID, other := range r.categories {
				if otherID != id && strings.EqualFold(other.Name, v) {
					return ErrDuplicate
				}
			}
			stored.Name = v
		}
	}
	if val, found := fields["description"]; found {
		if val == nil {
			stored.Description = nil
		} else if v, ok := val.(string); ok {
			stored.Description = &v
		}
	}

	r.categories[id] = stored
	return nil
}

func (r *MemoryCategoriesRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}
