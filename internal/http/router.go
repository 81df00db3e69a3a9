package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux to avoid a third-party
// routing dependency. Every request gets a correlation id and an access log
// line on the way out.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-Id", requestID)

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	r.mux.ServeHTTP(rec, req)

	r.logger.Info("http request",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RegisterRequestRoutes service request CRUD, search and export.
func (r *Router) RegisterRequestRoutes(h *RequestsHandler) {
	r.Handle("/api/requests", h.Collection)
	r.Handle("/api/requests/search", h.Search)
	r.Handle("/api/requests/export", h.Export)
	r.Handle("/api/requests/", h.ByID)
}

// RegisterAccountRoutes account CRUD and name search.
func (r *Router) RegisterAccountRoutes(h *AccountsHandler) {
	r.Handle("/api/accounts", h.Collection)
	r.Handle("/api/accounts/search", h.Search)
	r.Handle("/api/accounts/", h.ByID)
}

// RegisterCategoryRoutes category CRUD.
func (r *Router) RegisterCategoryRoutes(h *CategoriesHandler) {
	r.Handle("/api/categories", h.Collection)
	r.Handle("/api/categories/", h.ByID)
}

// RegisterReferenceRoutes read-only districts and regions.
func (r *Router) RegisterReferenceRoutes(h *ReferenceHandler) {
	r.Handle("/api/districts", h.Districts)
	r.Handle("/api/regions", h.Regions)
}
