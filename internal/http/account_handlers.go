package httpapi

import (
	"net/http"
	"strings"

	"surething-api/internal/service"

	"go.uber.org/zap"
)

type AccountsHandler struct {
	accounts service.AccountService
	logger   *zap.Logger
}

func NewAccountsHandler(accounts service.AccountService, logger *zap.Logger) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, logger: logger}
}

func (h *AccountsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AccountsHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateAccountInput
	if err := readBodyJSON(r, maxBodyBytes, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.accounts.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("account create failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AccountsHandler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		h.logger.Warn("account list failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// Search matches on name: substring by default, whole-name when exact=true.
func (h *AccountsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name parameter is required")
		return
	}
	exact := r.URL.Query().Get("exact") == "true"

	accounts, err := h.accounts.SearchByName(r.Context(), name, !exact)
	if err != nil {
		h.logger.Warn("account search failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountsHandler) ByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
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

func (h *AccountsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("account get failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	fields := map[string]any{}
	if err := readBodyJSON(r, maxBodyBytes, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := h.accounts.Update(r.Context(), id, fields)
	if err != nil {
		h.logger.Warn("account update failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AccountsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	deleted, err := h.accounts.Delete(r.Context(), id)
	if err != nil {
		h.logger.Warn("account delete failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
