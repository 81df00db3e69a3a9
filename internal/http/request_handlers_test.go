package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/repository"
	"surething-api/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter() *Router {
	logger := zap.NewNop()

	requestsRepo := repository.NewMemoryRequestsRepo()
	requestsRepo.SetRegion(1, "North")
	requestsRepo.SetDistrict(3, 1, "Hillside")
	requestsRepo.SetCategory(2, "Repairs")

	requests := service.NewRequestService(requestsRepo, nil, logger)
	export := service.NewExportService(requestsRepo)
	accounts := service.NewAccountService(repository.NewMemoryAccountsRepo(), logger)
	categories := service.NewCategoryService(repository.NewMemoryCategoriesRepo(), nil, time.Minute, logger)

	referenceRepo := repository.NewMemoryReferenceRepo()
	referenceRepo.AddRegion(domain.Region{ID: 1, Name: "North"})
	referenceRepo.AddDistrict(domain.District{ID: 3, RegionID: 1, Name: "Hillside"})
	reference := service.NewReferenceService(referenceRepo, nil, time.Minute, logger)

	router := NewRouter(logger)
	router.RegisterRequestRoutes(NewRequestsHandler(requests, export, logger))
	router.RegisterAccountRoutes(NewAccountsHandler(accounts, logger))
	router.RegisterCategoryRoutes(NewCategoriesHandler(categories, logger))
	router.RegisterReferenceRoutes(NewReferenceHandler(reference, logger))
	return router
}

func doJSON(t *testing.T, router *Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/requests", map[string]any{
		"requester_id": 1,
		"category_id":  2,
		"district_id":  3,
		"title":        "Fix fence",
		"status":       "pending",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var created domain.Request
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, []int64{}, created.Volunteers)

	path := fmt.Sprintf("/api/requests/%d", created.ID)

	// read back
	rec = doJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// status alone cannot move to accepted
	rec = doJSON(t, router, http.MethodPatch, path, map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Contains(t, errBody["error"], "responder_id")

	// full transition succeeds
	rec = doJSON(t, router, http.MethodPatch, path, map[string]any{
		"status":       "accepted",
		"responder_id": 9,
		"volunteers":   []int64{5, 6},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Request
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, domain.StatusAccepted, updated.Status)
	require.Equal(t, []int64{5, 6}, updated.Volunteers)

	// delete, then delete again
	rec = doJSON(t, router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestSearchAndExportOverHTTP(t *testing.T) {
	router := newTestRouter()

	for _, title := range []string{"first", "second"} {
		rec := doJSON(t, router, http.MethodPost, "/api/requests", map[string]any{
			"requester_id": 1,
			"category_id":  2,
			"district_id":  3,
			"title":        title,
			"status":       "pending",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/requests/search?region_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "North", rows[0]["region_name"])

	rec = doJSON(t, router, http.MethodGet, "/api/requests/search?created_at=not-a-date", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/requests/export?region_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Body.Bytes())
}

func TestAccountEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/accounts", map[string]any{
		"email": "pin@example.com",
		"name":  "Pat Example",
		"role":  "PIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// duplicate email conflicts
	rec = doJSON(t, router, http.MethodPost, "/api/accounts", map[string]any{
		"email": "pin@example.com",
		"role":  "PIN",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// CSR without affiliation rejected
	rec = doJSON(t, router, http.MethodPost, "/api/accounts", map[string]any{
		"email": "csr@example.com",
		"role":  "CSR",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/accounts/search?name=pat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []domain.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/accounts/search?name=pat&exact=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Empty(t, found)

	rec = doJSON(t, router, http.MethodGet, "/api/accounts/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryAndReferenceEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/categories", map[string]any{"name": "Repairs"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/categories", map[string]any{"name": "Repairs"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/categories", map[string]any{"name": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []domain.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/districts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var districts []domain.District
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &districts))
	require.Len(t, districts, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/regions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/requests/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
