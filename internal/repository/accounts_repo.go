package repository

import (
	"context"

	"surething-api/internal/domain"
)

// AccountsRepository persistence for accounts. Email uniqueness violations
// surface as ErrDuplicate.
type AccountsRepository interface {
	Create(ctx context.Context, account *domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	SearchByName(ctx context.Context, name string, partial bool) ([]*domain.Account, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}
