package service

import (
	"context"
	"errors"
	"fmt"

	"surething-api/internal/domain"
	"surething-api/internal/repository"

	"go.uber.org/zap"
)

// AccountService account management. Password handling lives at the excluded
// transport boundary; this layer owns shape validation and persistence only.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	SearchByName(ctx context.Context, name string, partial bool) ([]*domain.Account, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Account, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type CreateAccountInput struct {
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Role          string  `json:"role"`
	Status        *string `json:"status"`
	AffiliationID *int64  `json:"affiliation_id"`
}

type accountService struct {
	repo   repository.AccountsRepository
	logger *zap.Logger
}

func NewAccountService(repo repository.AccountsRepository, logger *zap.Logger) AccountService {
	return &accountService{repo: repo, logger: logger}
}

func (s *accountService) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	status := domain.AccountActive
	if input.Status != nil {
		status = domain.AccountStatus(*input.Status)
	}

	candidate := domain.Account{
		Email:         input.Email,
		Name:          input.Name,
		Phone:         input.Phone,
		Role:          domain.AccountRole(input.Role),
		Status:        status,
		AffiliationID: input.AffiliationID,
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, &candidate)
	if err != nil {
		return nil, err // repository.ErrDuplicate passes through
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read created account: %w", err)
	}
	s.logger.Info("account created", zap.Int64("account_id", created.ID), zap.String("role", string(created.Role)))
	return created, nil
}

func (s *accountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

func (s *accountService) SearchByName(ctx context.Context, name string, partial bool) ([]*domain.Account, error) {
	return s.repo.SearchByName(ctx, name, partial)
}

// Update merges the partial input onto the current record and re-validates
// the whole before persisting only the supplied columns.
func (s *accountService) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Account, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	cols, err := overlayAccountFields(&merged, fields)
	if err != nil {
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if len(cols) > 0 {
		if err := s.repo.Update(ctx, id, cols); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

func (s *accountService) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func overlayAccountFields(merged *domain.Account, fields map[string]any) (map[string]any, error) {
	cols := map[string]any{}
	var violations []string

	if raw, ok := fields["email"]; ok {
		if v, ok := raw.(string); ok {
			merged.Email = v
			cols["email"] = v
		} else {
			violations = append(violations, "email must be a string")
		}
	}
	if raw, ok := fields["name"]; ok {
		if raw == nil {
			merged.Name = nil
			cols["name"] = nil
		} else if v, ok := raw.(string); ok {
			merged.Name = &v
			cols["name"] = v
		} else {
			violations = append(violations, "name must be a string or null")
		}
	}
	if raw, ok := fields["phone"]; ok {
		if raw == nil {
			merged.Phone = nil
			cols["phone"] = nil
		} else if v, ok := raw.(string); ok {
			merged.Phone = &v
			cols["phone"] = v
		} else {
			violations = append(violations, "phone must be a string or null")
		}
	}
	if raw, ok := fields["role"]; ok {
		if v, ok := raw.(string); ok {
			merged.Role = domain.AccountRole(v)
			cols["role"] = v
		} else {
			violations = append(violations, "role must be a string")
		}
	}
	if raw, ok := fields["status"]; ok {
		if v, ok := raw.(string); ok {
			merged.Status = domain.AccountStatus(v)
			cols["status"] = v
		} else {
			violations = append(violations, "status must be a string")
		}
	}
	if raw, ok := fields["affiliation_id"]; ok {
		if raw == nil {
			merged.AffiliationID = nil
			cols["affiliation_id"] = nil
		} else if v, ok := asInt64(raw); ok {
			merged.AffiliationID = &v
			cols["affiliation_id"] = v
		} else {
			violations = append(violations, "affiliation_id must be an integer or null")
		}
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return cols, nil
}
