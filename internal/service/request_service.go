package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/notify"
	"surething-api/internal/repository"

	"go.uber.org/zap"
)

// RequestService orchestrates validate -> persist -> re-read so storage never
// receives an unvalidated record, and callers always observe the canonical
// row (including store-side defaulting), never the write-time echo.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error)
	Get(ctx context.Context, id int64) (*domain.Request, error)
	List(ctx context.Context, filters repository.RequestFilters) ([]*domain.Request, error)
	Search(ctx context.Context, filters repository.SearchFilters) ([]*repository.RequestSearchRow, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Request, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateRequestInput raw creation payload. Volunteers accepts either a list
// of integers or legacy comma-separated text; both are normalized before
// validation.
type CreateRequestInput struct {
	RequesterID int64      `json:"requester_id"`
	ResponderID *int64     `json:"responder_id"`
	CategoryID  int64      `json:"category_id"`
	DistrictID  int64      `json:"district_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	CreatedAt   *time.Time `json:"created_at"`
	Volunteers  any        `json:"volunteers"`
}

type requestService struct {
	repo     repository.RequestsRepository
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewRequestService(repo repository.RequestsRepository, notifier notify.Notifier, logger *zap.Logger) RequestService {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &requestService{repo: repo, notifier: notifier, logger: logger}
}

func (s *requestService) Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error) {
	createdAt := time.Now().UTC()
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}

	candidate := domain.Request{
		RequesterID: input.RequesterID,
		ResponderID: input.ResponderID,
		CategoryID:  input.CategoryID,
		DistrictID:  input.DistrictID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.RequestStatus(input.Status),
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		CreatedAt:   createdAt,
		Volunteers:  domain.NormalizeVolunteers(input.Volunteers),
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, &candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read created request: %w", err)
	}

	s.notifier.RequestEvent(ctx, notify.Event{
		Type:      "request.created",
		RequestID: created.ID,
		Status:    string(created.Status),
	})
	s.logger.Info("request created",
		zap.Int64("request_id", created.ID),
		zap.String("status", string(created.Status)))
	return created, nil
}

// Get absence is a normal outcome: (nil, nil), not an error.
func (s *requestService) Get(ctx context.Context, id int64) (*domain.Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, filters repository.RequestFilters) ([]*domain.Request, error) {
	return s.repo.List(ctx, filters)
}

func (s *requestService) Search(ctx context.Context, filters repository.SearchFilters) ([]*repository.RequestSearchRow, error) {
	return s.repo.Search(ctx, filters)
}

// Update projects the current full record, overlays the supplied fields,
// validates the merged whole, then persists only the overlay. An update that
// changes just status must still satisfy responder/volunteer consistency
// against the current volunteer list.
func (s *requestService) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Request, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err // repository.ErrNotFound passes through
	}

	merged := *current
	merged.Volunteers = append([]int64{}, current.Volunteers...)

	cols, err := overlayRequestFields(&merged, fields)
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

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updated.Status != current.Status {
		s.notifier.RequestEvent(ctx, notify.Event{
			Type:      "request.status_changed",
			RequestID: updated.ID,
			Status:    string(updated.Status),
		})
	}
	return updated, nil
}

// Delete maps a missing row to (false, nil) so callers get a uniform
// success/failure signal instead of an error.
func (s *requestService) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.notifier.RequestEvent(ctx, notify.Event{
		Type:      "request.deleted",
		RequestID: id,
	})
	return true, nil
}

// overlayRequestFields applies a raw partial-update map onto merged and
// returns the coerced column subset for the repository. Unknown keys are
// ignored; wrongly typed values collect into one ValidationError.
func overlayRequestFields(merged *domain.Request, fields map[string]any) (map[string]any, error) {
	cols := map[string]any{}
	var violations []string

	if raw, ok := fields["requester_id"]; ok {
		if v, ok := asInt64(raw); ok {
			merged.RequesterID = v
			cols["requester_id"] = v
		} else {
			violations = append(violations, "requester_id must be an integer")
		}
	}
	if raw, ok := fields["responder_id"]; ok {
		if raw == nil {
			merged.ResponderID = nil
			cols["responder_id"] = nil
		} else if v, ok := asInt64(raw); ok {
			merged.ResponderID = &v
			cols["responder_id"] = v
		} else {
			violations = append(violations, "responder_id must be an integer or null")
		}
	}
	if raw, ok := fields["category_id"]; ok {
		if v, ok := asInt64(raw); ok {
			merged.CategoryID = v
			cols["category_id"] = v
		} else {
			violations = append(violations, "category_id must be an integer")
		}
	}
	if raw, ok := fields["district_id"]; ok {
		if v, ok := asInt64(raw); ok {
			merged.DistrictID = v
			cols["district_id"] = v
		} else {
			violations = append(violations, "district_id must be an integer")
		}
	}
	if raw, ok := fields["title"]; ok {
		if v, ok := raw.(string); ok {
			merged.Title = v
			cols["title"] = v
		} else {
			violations = append(violations, "title must be a string")
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
	if raw, ok := fields["status"]; ok {
		if v, ok := raw.(string); ok {
			merged.Status = domain.RequestStatus(v)
			cols["status"] = v
		} else {
			violations = append(violations, "status must be a string")
		}
	}
	if raw, ok := fields["start_at"]; ok {
		if raw == nil {
			merged.StartAt = nil
			cols["start_at"] = nil
		} else if v, ok := asTime(raw); ok {
			merged.StartAt = &v
			cols["start_at"] = v
		} else {
			violations = append(violations, "start_at must be a timestamp or null")
		}
	}
	if raw, ok := fields["end_at"]; ok {
		if raw == nil {
			merged.EndAt = nil
			cols["end_at"] = nil
		} else if v, ok := asTime(raw); ok {
			merged.EndAt = &v
			cols["end_at"] = v
		} else {
			violations = append(violations, "end_at must be a timestamp or null")
		}
	}
	if raw, ok := fields["volunteers"]; ok {
		vols := domain.NormalizeVolunteers(raw)
		merged.Volunteers = vols
		cols["volunteers"] = vols
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return cols, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
