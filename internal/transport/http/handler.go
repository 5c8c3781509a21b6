package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mailgate/internal/identify"
	"mailgate/internal/routing"
	id "mailgate/pkg/domain"
	"mailgate/pkg/platform/httputil"
)

// Identifier is the identification pipeline surface the handlers need.
type Identifier interface {
	IdentifyByDomain(ctx context.Context, rawDomain string) identify.Result
	IdentifyByEmail(ctx context.Context, rawEmail string) identify.Result
	FindSimilarTenants(ctx context.Context, rawDomain string, limit int) []identify.Suggestion
}

// Router is the routing engine surface the handlers need.
type Router interface {
	Route(ctx context.Context, tenantID id.TenantID, category string, rctx routing.Context) (*routing.Decision, error)
}

// Reloader triggers a directory rebuild-and-swap.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Health reports collaborator liveness for the health endpoint.
type Health func(ctx context.Context) error

// Handler wires gateway endpoints to the core services.
type Handler struct {
	identifier Identifier
	router     Router
	reloader   Reloader
	health     Health
	logger     *slog.Logger
}

// NewHandler constructs the HTTP handler set. health may be nil.
func NewHandler(identifier Identifier, router Router, reloader Reloader, health Health, logger *slog.Logger) *Handler {
	return &Handler{
		identifier: identifier,
		router:     router,
		reloader:   reloader,
		health:     health,
		logger:     logger,
	}
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
