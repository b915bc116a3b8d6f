// @title Rolegate API
// @version 1.0.0
// @description RBAC bookkeeping service: service/operation registry, role management, role expansion
// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rolegate/rolegate/internal/audit"
	"github.com/rolegate/rolegate/internal/pager"
	"github.com/rolegate/rolegate/internal/registry"
	"github.com/rolegate/rolegate/internal/role"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	registry    *registry.Registry
	roleService *role.Service
	apiKey      string
}

// NewHandler creates a new HTTP handler
func NewHandler(reg *registry.Registry, roleService *role.Service, apiKey string) *Handler {
	return &Handler{
		registry:    reg,
		roleService: roleService,
		apiKey:      apiKey,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes, all behind the shared API key
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.APIKeyMiddleware)

		r.Route("/services", func(r chi.Router) {
			r.Post("/", h.CreateService)
			r.Get("/", h.ListServices)
			r.Post("/operation", h.AddOperations)
			r.Route("/{serviceID}", func(r chi.Router) {
				r.Get("/", h.GetService)
				r.Put("/", h.UpdateService)
				r.Delete("/", h.DeleteService)
			})
		})

		r.Route("/roles", func(r chi.Router) {
			r.Post("/", h.CreateRole)
			r.Get("/", h.ListRoles)
			r.Route("/{roleID}", func(r chi.Router) {
				r.Get("/", h.GetRole)
				r.Put("/", h.UpdateRole)
				r.Delete("/", h.DeleteRole)
			})
		})

		r.Post("/rolexpand", h.ExpandRoles)
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rolegate",
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps a domain error to its HTTP status. Every core
// operation fails with exactly one of these kinds; anything unrecognised is
// a server fault.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrInvalidName),
		errors.Is(err, role.ErrInvalidName),
		errors.Is(err, role.ErrInvalidReference),
		errors.Is(err, pager.ErrInvalidPage):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrServiceNotFound),
		errors.Is(err, role.ErrRoleNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pager.ErrPageTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, audit.ErrSinkUnavailable):
		respondError(w, http.StatusFailedDependency, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requestBaseURL reconstructs the URL the client requested, without the
// query string, for use as the paging link base.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}
