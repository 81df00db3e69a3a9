package httpapi

import (
	"net/http"

	"surething-api/internal/service"

	"go.uber.org/zap"
)

// ReferenceHandler read-only districts and regions listings.
type ReferenceHandler struct {
	reference service.ReferenceService
	logger    *zap.Logger
}

func NewReferenceHandler(reference service.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, logger: logger}
}

func (h *ReferenceHandler) Districts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	districts, err := h.reference.ListDistricts(r.Context())
	if err != nil {
		h.logger.Warn("district list failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, districts)
}

func (h *ReferenceHandler) Regions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	regions, err := h.reference.ListRegions(r.Context())
	if err != nil {
		h.logger.Warn("region list failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}
