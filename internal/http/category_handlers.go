package httpapi

import (
	"net/http"
	"strings"

	"surething-api/internal/service"

	"go.uber.org/zap"
)

type CategoriesHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

func NewCategoriesHandler(categories service.CategoryService, logger *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, logger: logger}
}

func (h *CategoriesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CategoriesHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateCategoryInput
	if err := readBodyJSON(r, maxBodyBytes, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.categories.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("category create failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CategoriesHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Warn("category list failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoriesHandler) ByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/categories/")
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
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CategoriesHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("category get failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoriesHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	fields := map[string]any{}
	if err := readBodyJSON(r, maxBodyBytes, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := h.categories.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Warn("category update failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CategoriesHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	deleted, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		h.logger.Warn("category delete failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
