package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mailgate/internal/identify"
	dErrors "mailgate/pkg/domain-errors"
	"mailgate/pkg/platform/httputil"
	"mailgate/pkg/requestcontext"
)

// IdentifyRequest carries either a domain or a full email address.
type IdentifyRequest struct {
	Domain string `json:"domain,omitempty"`
	Email  string `json:"email,omitempty"`
}

const defaultSimilarLimit = 5

// HandleIdentify handles POST /v1/identify.
//
// Identification never errors for malformed input: the response is a
// no_match result with is_successful=false, mirroring the library contract.
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if (req.Domain == "") == (req.Email == "") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "exactly one of domain or email is required"))
		return
	}

	result := h.identifyRequest(r, req)
	if !result.Successful {
		h.logger.InfoContext(ctx, "identification failed",
			"request_id", requestcontext.RequestID(ctx),
			"input_domain", result.InputDomain,
		)
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) identifyRequest(r *http.Request, req IdentifyRequest) identify.Result {
	if req.Email != "" {
		return h.identifier.IdentifyByEmail(r.Context(), req.Email)
	}
	return h.identifier.IdentifyByDomain(r.Context(), req.Domain)
}

// HandleSimilar handles GET /v1/identify/similar?domain=...&limit=N.
func (h *Handler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "domain query parameter is required"))
		return
	}
	limit := defaultSimilarLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	suggestions := h.identifier.FindSimilarTenants(r.Context(), domain, limit)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"domain":      domain,
		"suggestions": suggestions,
	})
}
