//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"surething-api/internal/config"
	"surething-api/internal/database"
	"surething-api/internal/domain"

	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *sql.DB {
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	require.NoError(t, database.ApplySchema(db, database.Schema))
	return db
}

func seedReferenceData(t *testing.T, db *sql.DB) (requesterID, responderID, categoryID, districtID, regionID int64) {
	ctx := context.Background()

	err := db.QueryRowContext(ctx,
		`INSERT INTO regions (name) VALUES ('Test Region')
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`).Scan(&regionID)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`INSERT INTO districts (region_id, name) VALUES ($1, 'Test District') RETURNING id`,
		regionID).Scan(&districtID)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ('Test Category')
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`).Scan(&categoryID)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`INSERT INTO accounts (email, name, role, status) VALUES ('pin-test@example.com', 'Pin', 'PIN', 'active')
		 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`).Scan(&requesterID)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`INSERT INTO accounts (email, name, role, status, affiliation_id) VALUES ('csr-test@example.com', 'Csr', 'CSR', 'active', 1)
		 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`).Scan(&responderID)
	require.NoError(t, err)

	return
}

func cleanupRequests(t *testing.T, db *sql.DB, requesterID int64) {
	_, _ = db.Exec(`DELETE FROM requests WHERE requester_id = $1`, requesterID)
}

func TestPostgresRequests_CreateGetRoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	requesterID, _, categoryID, districtID, _ := seedReferenceData(t, db)
	defer cleanupRequests(t, db, requesterID)

	repo := NewPostgresRequestsRepository(db)
	ctx := context.Background()

	req := &domain.Request{
		RequesterID: requesterID,
		CategoryID:  categoryID,
		DistrictID:  districtID,
		Title:       "Fix fence",
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		Volunteers:  []int64{},
	}

	id, err := repo.Create(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Fix fence", got.Title)
	require.Equal(t, domain.StatusPending, got.Status)
	require.Nil(t, got.ResponderID)
	require.Equal(t, []int64{}, got.Volunteers)
}

func TestPostgresRequests_UpdatePartial(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	requesterID, responderID, categoryID, districtID, _ := seedReferenceData(t, db)
	defer cleanupRequests(t, db, requesterID)

	repo := NewPostgresRequestsRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Request{
		RequesterID: requesterID,
		CategoryID:  categoryID,
		DistrictID:  districtID,
		Title:       "Shovel snow",
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
		Volunteers:  []int64{},
	})
	require.NoError(t, err)

	err = repo.Update(ctx, id, map[string]any{
		"status":       "accepted",
		"responder_id": responderID,
		"volunteers":   []int64{5, 6},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, got.Status)
	require.NotNil(t, got.ResponderID)
	require.Equal(t, responderID, *got.ResponderID)
	require.Equal(t, []int64{5, 6}, got.Volunteers)
	// untouched columns keep their values
	require.Equal(t, "Shovel snow", got.Title)
}

func TestPostgresRequests_NotFound(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := NewPostgresRequestsRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99999999)
	require.ErrorIs(t, err, ErrNotFound)

	err = repo.Update(ctx, 99999999, map[string]any{"title": "x"})
	require.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, 99999999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRequests_SearchJoinsAndOrder(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	requesterID, _, categoryID, districtID, regionID := seedReferenceData(t, db)
	defer cleanupRequests(t, db, requesterID)

	repo := NewPostgresRequestsRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &domain.Request{
			RequesterID: requesterID,
			CategoryID:  categoryID,
			DistrictID:  districtID,
			Title:       title,
			Status:      domain.StatusPending,
			CreatedAt:   base.AddDate(0, 0, i),
			Volunteers:  []int64{},
		})
		require.NoError(t, err)
	}

	from := base.AddDate(0, 0, 1)
	rows, err := repo.Search(ctx, SearchFilters{RegionID: &regionID, CreatedAt: &from})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	require.Equal(t, "third", rows[0].Title)
	require.Equal(t, "second", rows[1].Title)
	require.Equal(t, "Test Category", rows[0].CategoryName)
	require.Equal(t, "Test District", rows[0].DistrictName)
	require.Equal(t, "Test Region", rows[0].RegionName)
}

func TestPostgresRequests_SearchTieBreaksOnAscendingID(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	requesterID, _, categoryID, districtID, regionID := seedReferenceData(t, db)
	defer cleanupRequests(t, db, requesterID)

	repo := NewPostgresRequestsRepository(db)
	ctx := context.Background()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, 3)
	for _, title := range []string{"first", "second", "third"} {
		id, err := repo.Create(ctx, &domain.Request{
			RequesterID: requesterID,
			CategoryID:  categoryID,
			DistrictID:  districtID,
			Title:       title,
			Status:      domain.StatusPending,
			CreatedAt:   at,
			Volunteers:  []int64{},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	rows, err := repo.Search(ctx, SearchFilters{RegionID: &regionID, CreatedAt: &at})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// identical created_at: ascending id decides the order
	require.Equal(t, ids[0], rows[0].ID)
	require.Equal(t, ids[1], rows[1].ID)
	require.Equal(t, ids[2], rows[2].ID)
}
