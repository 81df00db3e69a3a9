package service

import (
	"context"
	"testing"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRequestService() (RequestService, *repository.MemoryRequestsRepo) {
	repo := repository.NewMemoryRequestsRepo()
	repo.SetRegion(1, "North")
	repo.SetRegion(2, "South")
	repo.SetDistrict(3, 1, "Hillside")
	repo.SetDistrict(4, 2, "Riverside")
	repo.SetCategory(2, "Repairs")
	return NewRequestService(repo, nil, zap.NewNop()), repo
}

func TestRequestService_CreatePendingDefaults(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      "pending",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Nil(t, created.ResponderID)
	require.Equal(t, []int64{}, created.Volunteers)
	require.False(t, created.CreatedAt.IsZero())
}

func TestRequestService_CreateVolunteersFromCSV(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	responder := int64(9)
	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		ResponderID: &responder,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Grocery run",
		Status:      "accepted",
		Volunteers:  "5, 6, x, 7",
	})
	require.NoError(t, err)
	require.Equal(t, []int64{5, 6, 7}, created.Volunteers)
}

func TestRequestService_CreateInvalidCollectsViolations(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	responder := int64(9)
	_, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		ResponderID: &responder,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "   ",
		Status:      "pending",
		Volunteers:  []int64{5},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	// empty title + pending with responder + pending with volunteers
	require.Len(t, verr.Violations, 3)
}

func TestRequestService_GetAbsentIsNilNil(t *testing.T) {
	svc, _ := newTestRequestService()

	got, err := svc.Get(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRequestService_UpdateToAccepted(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      "pending",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, map[string]any{
		"status":       "accepted",
		"responder_id": float64(9), // decoded JSON numbers arrive as float64
		"volunteers":   []any{float64(5), float64(6)},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, updated.Status)
	require.NotNil(t, updated.ResponderID)
	require.Equal(t, int64(9), *updated.ResponderID)
	require.Equal(t, []int64{5, 6}, updated.Volunteers)
	// untouched fields survive the partial update
	require.Equal(t, "Fix fence", updated.Title)
}

func TestRequestService_UpdateStatusAloneFailsConsistency(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      "pending",
	})
	require.NoError(t, err)

	// accepted requires a responder and volunteers; the merged record has
	// neither, so the update must be rejected and nothing persisted.
	_, err = svc.Update(ctx, created.ID, map[string]any{"status": "accepted"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	unchanged, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, unchanged.Status)
}

func TestRequestService_UpdateBackToPendingClearsAssignment(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	responder := int64(9)
	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		ResponderID: &responder,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Grocery run",
		Status:      "accepted",
		Volunteers:  []int64{5},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, map[string]any{
		"status":       "pending",
		"responder_id": nil,
		"volunteers":   []any{},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, updated.Status)
	require.Nil(t, updated.ResponderID)
	require.Equal(t, []int64{}, updated.Volunteers)
}

func TestRequestService_UpdateUnknownFieldsIgnored(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      "pending",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, map[string]any{
		"id":       float64(999),
		"whatever": "ignored",
		"title":    "Fix the fence",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Fix the fence", updated.Title)
}

func TestRequestService_UpdateAbsent(t *testing.T) {
	svc, _ := newTestRequestService()

	_, err := svc.Update(context.Background(), 404, map[string]any{"title": "x"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestService_DeleteIdempotentSignal(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequestInput{
		RequesterID: 1,
		CategoryID:  2,
		DistrictID:  3,
		Title:       "Fix fence",
		Status:      "pending",
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestRequestService_SearchRegionAndSince(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title string, districtID int64, createdAt time.Time) {
		t.Helper()
		at := createdAt
		_, err := svc.Create(ctx, CreateRequestInput{
			RequesterID: 1,
			CategoryID:  2,
			DistrictID:  districtID,
			Title:       title,
			Status:      "pending",
			CreatedAt:   &at,
		})
		require.NoError(t, err)
	}
	mk("north old", 3, base)
	mk("north new", 3, base.AddDate(0, 0, 2))
	mk("south new", 4, base.AddDate(0, 0, 2))

	region := int64(1)
	since := base.AddDate(0, 0, 1)
	rows, err := svc.Search(ctx, repository.SearchFilters{RegionID: &region, CreatedAt: &since})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "north new", rows[0].Title)
	require.Equal(t, "Repairs", rows[0].CategoryName)
	require.Equal(t, "Hillside", rows[0].DistrictName)
	require.Equal(t, "North", rows[0].RegionName)
}

func TestRequestService_SearchTieBreaksOnAscendingID(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, 3)
	for _, title := range []string{"first", "second", "third"} {
		created, err := svc.Create(ctx, CreateRequestInput{
			RequesterID: 1,
			CategoryID:  2,
			DistrictID:  3,
			Title:       title,
			Status:      "pending",
			CreatedAt:   &at,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	rows, err := svc.Search(ctx, repository.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// identical created_at: ascending id decides the order
	require.Equal(t, ids[0], rows[0].ID)
	require.Equal(t, ids[1], rows[1].ID)
	require.Equal(t, ids[2], rows[2].ID)
}
