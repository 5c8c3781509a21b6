package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"mailgate/internal/routing"
	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
	"mailgate/pkg/platform/httputil"
	"mailgate/pkg/requestcontext"
)

// RouteRequest asks for a delivery decision for an already-identified tenant.
type RouteRequest struct {
	TenantID  string    `json:"tenant_id"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// HandleRoute handles POST /v1/route.
func (h *Handler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Category == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category is required"))
		return
	}

	decision, err := h.router.Route(ctx, tenantID, req.Category, routing.Context{
		Timestamp: req.Timestamp,
		Priority:  req.Priority,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "routing failed",
			"request_id", requestcontext.RequestID(ctx),
			"tenant_id", req.TenantID,
			"category", req.Category,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

// HandleReload handles POST /v1/reload: rebuild-and-swap the directory.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.reloader.Reload(ctx); err != nil {
		h.logger.ErrorContext(ctx, "manual reload failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
