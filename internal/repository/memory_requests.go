package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"surething-api/internal/domain"
)

// MemoryRequestsRepo keeps the API usable when the DB is disabled (local dev)
// and backs the service unit tests. Search name resolution uses small
// reference maps seeded through SetCategory/SetDistrict/SetRegion.
type MemoryRequestsRepo struct {
	mu       sync.RWMutex
	nextID   int64
	requests map[int64]domain.Request

	categories map[int64]string
	districts  map[int64]memDistrict
	regions    map[int64]string
}

type memDistrict struct {
	regionID int64
	name     string
}

func NewMemoryRequestsRepo() *MemoryRequestsRepo {
	return &MemoryRequestsRepo{
		nextID:     1,
		requests:   map[int64]domain.Request{},
		categories: map[int64]string{},
		districts:  map[int64]memDistrict{},
		regions:    map[int64]string{},
	}
}

func (r *MemoryRequestsRepo) SetCategory(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[id] = name
}

func (r *MemoryRequestsRepo) SetDistrict(id, regionID int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.districts[id] = memDistrict{regionID: regionID, name: name}
}

func (r *MemoryRequestsRepo) SetRegion(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[id] = name
}

func (r *MemoryRequestsRepo) Create(_ context.Context, req *domain.Request) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *req
	stored.ID = r.nextID
	r.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.Volunteers = append([]int64{}, req.Volunteers...)
	r.requests[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemoryRequestsRepo) GetByID(_ context.Context, id int64) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := stored
	out.Volunteers = append([]int64{}, stored.Volunteers...)
	return &out, nil
}

func (r *MemoryRequestsRepo) List(_ context.Context, filters RequestFilters) ([]*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Request{}
	for _, stored := range r.requests {
		if filters.Status != nil && stored.Status != *filters.Status {
			continue
		}
		if filters.RequesterID != nil && stored.RequesterID != *filters.RequesterID {
			continue
		}
		if filters.ResponderID != nil && (stored.ResponderID == nil || *stored.ResponderID != *filters.ResponderID) {
			continue
		}
		if filters.CategoryID != nil && stored.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.DistrictID != nil && stored.DistrictID != *filters.DistrictID {
			continue
		}
		item := stored
		item.Volunteers = append([]int64{}, stored.Volunteers...)
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRequestsRepo) Search(_ context.Context, filters SearchFilters) ([]*RequestSearchRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*RequestSearchRow{}
	for _, stored := range r.requests {
		d, ok := r.districts[stored.DistrictID]
		if !ok {
			continue // inner join semantics
		}
		if _, ok := r.categories[stored.CategoryID]; !ok {
			continue
		}
		if _, ok := r.regions[d.regionID]; !ok {
			continue
		}
		if filters.CategoryID != nil && stored.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.DistrictID != nil && stored.DistrictID != *filters.DistrictID {
			continue
		}
		if filters.RegionID != nil && d.regionID != *filters.RegionID {
			continue
		}
		if filters.CreatedAt != nil && stored.CreatedAt.Before(*filters.CreatedAt) {
			continue
		}
		item := stored
		item.Volunteers = append([]int64{}, stored.Volunteers...)
		out = append(out, &RequestSearchRow{
			Request:      item,
			CategoryName: r.categories[stored.CategoryID],
			DistrictName: d.name,
			RegionName:   r.regions[d.regionID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRequestsRepo) Update(_ context.Context, id int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[id]
	if !ok {
		return ErrNotFound
	}
	if len(fields) == 0 {
		return nil
	}

	for col, val := range fields {
		switch col {
		case "requester_id":
			if v, ok := val.(int64); ok {
				stored.RequesterID = v
			}
		case "responder_id":
			if val == nil {
				stored.ResponderID = nil
			} else if v, ok := val.(int64); ok {
				stored.ResponderID = &v
			}
		case "category_id":
			if v, ok := val.(int64); ok {
				stored.CategoryID = v
			}
		case "district_id":
			if v, ok := val.(int64); ok {
				stored.DistrictID = v
			}
		case "title":
			if v, ok := val.(string); ok {
				stored.Title = v
			}
		case "description":
			if val == nil {
				stored.Description = nil
			} else if v, ok := val.(string); ok {
				stored.Description = &v
			}
		case "status":
			if v, ok := val.(string); ok {
				stored.Status = domain.RequestStatus(v)
			}
		case "start_at":
			if val == nil {
				stored.StartAt = nil
			} else if v, ok := val.(time.Time); ok {
				stored.StartAt = &v
			}
		case "end_at":
			if val == nil {
				stored.EndAt = nil
			} else if v, ok := val.(time.Time); ok {
				stored.EndAt = &v
			}
		case "volunteers":
			if v, ok := val.([]int64); ok {
				stored.Volunteers = append([]int64{}, v...)
			}
		}
	}

	r.requests[id] = stored
	return nil
}

func (r *MemoryRequestsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[id]; !ok {
		return ErrNotFound
	}
	delete(r.requests, id)
	return nil
}
