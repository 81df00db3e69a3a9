package repository

import (
	"context"

	"surething-api/internal/domain"
)

// CategoriesRepository persistence for categories. Name uniqueness violations
// surface as ErrDuplicate.
type CategoriesRepository interface {
	Create(ctx context.Context, category *domain.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
