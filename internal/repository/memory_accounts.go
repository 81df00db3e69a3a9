package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"surething-api/internal/domain"
)

// MemoryAccountsRepo in-memory AccountsRepository used when the DB is
// disabled and in unit tests.
type MemoryAccountsRepo struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]domain.Account
}

func NewMemoryAccountsRepo() *MemoryAccountsRepo {
	return &MemoryAccountsRepo{
		nextID:   1,
		accounts: map[int64]domain.Account{},
	}
}

func (r *MemoryAccountsRepo) Create(_ context.Context, account *domain.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.accounts {
		if strings.EqualFold(stored.Email, account.Email) {
			return 0, ErrDuplicate
		}
	}

	stored := *account
	stored.ID = r.nextID
	r.nextID++
	r.accounts[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemoryAccountsRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := stored
	return &out, nil
}

func (r *MemoryAccountsRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.accounts {
		if strings.EqualFold(stored.Email, email) {
			out := stored
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountsRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Account{}
	for _, stored := range r.accounts {
		item := stored
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryAccountsRepo) SearchByName(_ context.Context, name string, partial bool) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	out := []*domain.Account{}
	for _, stored := range r.accounts {
		if stored.Name == nil {
			continue
		}
		haystack := strings.ToLower(*stored.Name)
		if partial {
			if !strings.Contains(haystack, needle) {
				continue
			}
		} else if haystack != needle {
			continue
		}
		item := stored
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryAccountsRepo) Update(_ context.Context, id int64, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}

	for col, val := range fields {
		switch col {
		case "email":
			if v, ok := val.(string); ok {
				for otherID, other := range r.accounts {
					if otherID != id && strings.EqualFold(other.Email, v) {
						return ErrDuplicate
					}
				}
				stored.Email = v
			}
		case "name":
			if val == nil {
				stored.Name = nil
			} else if v, ok := val.(string); ok {
				stored.Name = &v
			}
		case "phone":
			if val == nil {
				stored.Phone = nil
			} else if v, ok := val.(string); ok {
				stored.Phone = &v
			}
		case "role":
			if v, ok := val.(string); ok {
				stored.Role = domain.AccountRole(v)
			}
		case "status":
			if v, ok := val.(string); ok {
				stored.Status = domain.AccountStatus(v)
			}
		case "affiliation_id":
			if val == nil {
				stored.AffiliationID = nil
			} else if v, ok := val.(int64); ok {
				stored.AffiliationID = &v
			}
		}
	}

	r.accounts[id] = stored
	return nil
}

func (r *MemoryAccountsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}
