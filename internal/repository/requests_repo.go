package repository

import (
	"context"
	"time"

	"surething-api/internal/domain"
)

// RequestFilters optional equality predicates for List. Nil fields impose no
// constraint; present fields are ANDed.
type RequestFilters struct {
	Status      *domain.RequestStatus
	RequesterID *int64
	ResponderID *int64
	CategoryID  *int64
	DistrictID  *int64
}

// SearchFilters predicates for Search. RegionID filters indirectly through
// district membership. CreatedAt is an inclusive lower bound ("created on or
// after"), deliberately asymmetric from List's exact matches.
type SearchFilters struct {
	CategoryID *int64
	DistrictID *int64
	RegionID   *int64
	CreatedAt  *time.Time
}

// RequestSearchRow a request joined with its category/district/region names.
type RequestSearchRow struct {
	domain.Request
	CategoryName string `json:"category_name"`
	DistrictName string `json:"district_name"`
	RegionName   string `json:"region_name"`
}

// RequestsRepository persistence for requests. Update takes the supplied
// column subset only; unsupplied columns are never rewritten.
type RequestsRepository interface {
	Create(ctx context.Context, req *domain.Request) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	List(ctx context.Context, filters RequestFilters) ([]*domain.Request, error)
	Search(ctx context.Context, filters SearchFilters) ([]*RequestSearchRow, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
