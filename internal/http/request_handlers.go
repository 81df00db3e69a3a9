package httpapi

import (
	"net/http"
	"strings"
	"time"

	"surething-api/internal/domain"
	"surething-api/internal/repository"
	"surething-api/internal/service"

	"go.uber.org/zap"
)

type RequestsHandler struct {
	requests service.RequestService
	export   service.ExportService
	logger   *zap.Logger
}

func NewRequestsHandler(requests service.RequestService, export service.ExportService, logger *zap.Logger) *RequestsHandler {
	return &RequestsHandler{requests: requests, export: export, logger: logger}
}

func (h *RequestsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *RequestsHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateRequestInput
	if err := readBodyJSON(r, maxBodyBytes, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.requests.Create(r.Context(), input)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestsHandler) list(w http.ResponseWriter, r *http.Request) {
	var filters repository.RequestFilters

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.RequestStatus(raw)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filters.Status = &status
	}
	var err error
	if filters.RequesterID, err = queryInt64(r, "requester_id"); err != nil {
		writeError(w, http.StatusBadRequest, "requester_id must be an integer")
		return
	}
	if filters.ResponderID, err = queryInt64(r, "responder_id"); err != nil {
		writeError(w, http.StatusBadRequest, "responder_id must be an integer")
		return
	}
	if filters.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		writeError(w, http.StatusBadRequest, "category_id must be an integer")
		return
	}
	if filters.DistrictID, err = queryInt64(r, "district_id"); err != nil {
		writeError(w, http.StatusBadRequest, "district_id must be an integer")
		return
	}

	requests, err := h.requests.List(r.Context(), filters)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/requests/")
	if idStr == "" || strings.Contains(idStr, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := parseInt64(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *RequestsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	fields := map[string]any{}
	if err := readBodyJSON(r, maxBodyBytes, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := h.requests.Update(r.Context(), id, fields)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RequestsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	deleted, err := h.requests.Delete(r.Context(), id)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RequestsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filters, ok := h.searchFilters(w, r)
	if !ok {
		return
	}

	rows, err := h.requests.Search(r.Context(), filters)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *RequestsHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filters, ok := h.searchFilters(w, r)
	if !ok {
		return
	}

	data, err := h.export.ExportSearch(r.Context(), filters)
	if err != nil {
		h.logServiceError(r, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="requests.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *RequestsHandler) searchFilters(w http.ResponseWriter, r *http.Request) (repository.SearchFilters, bool) {
	var filters repository.SearchFilters
	var err error

	if filters.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		writeError(w, http.StatusBadRequest, "category_id must be an integer")
		return filters, false
	}
	if filters.DistrictID, err = queryInt64(r, "district_id"); err != nil {
		writeError(w, http.StatusBadRequest, "district_id must be an integer")
		return filters, false
	}
	if filters.RegionID, err = queryInt64(r, "region_id"); err != nil {
		writeError(w, http.StatusBadRequest, "region_id must be an integer")
		return filters, false
	}
	if raw := r.URL.Query().Get("created_at"); raw != "" {
		from, err := parseTimeParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_at must be RFC3339 or YYYY-MM-DD")
			return filters, false
		}
		filters.CreatedAt = &from
	}
	return filters, true
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (h *RequestsHandler) logServiceError(r *http.Request, err error) {
	h.logger.Warn("request handler error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}
