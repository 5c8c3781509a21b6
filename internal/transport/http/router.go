// Package httptransport is the thin HTTP layer. Handlers delegate to the
// identification pipeline and routing engine without embedding business
// logic, so transport concerns remain isolated from the core library.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailgate/pkg/requestcontext"
)

// NewRouter wires all public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/identify", h.HandleIdentify)
		r.Get("/identify/similar", h.HandleSimilar)
		r.Post("/route", h.HandleRoute)
		r.Post("/reload", h.HandleReload)
	})

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// requestID tags every request with an ID for log correlation, honoring an
// inbound X-Request-ID when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
