package repository

import (
	"context"
	"sort"
	"sync"

	"surething-api/internal/domain"
)

// MemoryReferenceRepo in-memory ReferenceRepository. Rows are seeded at
// startup (or by tests) through AddRegion/AddDistrict.
type MemoryReferenceRepo struct {
	mu        sync.RWMutex
	districts map[int64]domain.District
	regions   map[int64]domain.Region
}

func NewMemoryReferenceRepo() *MemoryReferenceRepo {
	return &MemoryReferenceRepo{
		districts: map[int64]domain.District{},
		regions:   map[int64]domain.Region{},
	}
}

func (r *MemoryReferenceRepo) AddRegion(region domain.Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[region.ID] = region
}

func (r *MemoryReferenceRepo) AddDistrict(district domain.District) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.districts[district.ID] = district
}

func (r *MemoryReferenceRepo) ListDistricts(_ context.Context) ([]*domain.District, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.District{}
	for _, stored := range r.districts {
		item := stored
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryReferenceRepo) ListRegions(_ context.Context) ([]*domain.Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Region{}
	for _, stored := range r.regions {
		item := stored
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryReferenceRepo) GetDistrict(_ context.Context, id int64) (*domain.District, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.districts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *MemoryReferenceRepo) GetRegion(_ context.Context, id int64) (*domain.Region, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.regions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := stored
	return &out, nil
}
