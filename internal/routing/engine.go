package routing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	routingmetrics "mailgate/internal/routing/metrics"
	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
	"mailgate/pkg/platform/sentinel"
)

// TenantSource resolves a tenant's configuration in the current directory
// snapshot. Implemented by directory.Provider.
type TenantSource interface {
	Tenant(tenantID id.TenantID) (models.TenantConfig, error)
}

// Engine maps a resolved tenant plus a classified category to a delivery
// destination, honoring escalation and business-hours policy. Stateless per
// call; safe for concurrent use.
type Engine struct {
	tenants            TenantSource
	defaultDestination string
	logger             *slog.Logger
	metrics            *routingmetrics.Metrics
	now                func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(e *Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *routingmetrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the engine's time source. Tests use this to pin
// business-hours evaluation.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs a routing engine. defaultDestination is the
// process-wide address used when a tenant has no matching rule at all.
func NewEngine(tenants TenantSource, defaultDestination string, opts ...EngineOption) (*Engine, error) {
	if tenants == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant source is required")
	}
	if defaultDestination == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "default destination is required")
	}
	e := &Engine{tenants: tenants, defaultDestination: defaultDestination, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Route produces a delivery decision for a resolved tenant and category.
//
// Rule resolution: the tenant's enabled rule for the category; else the
// tenant's "general" rule (method fallback); else the process default
// destination (method fallback). An unknown tenant is a caller error and
// fails fast: the identification pipeline must resolve a tenant first, so an
// unroutable tenant indicates an upstream resolution bug, not a message to
// degrade silently.
func (e *Engine) Route(ctx context.Context, tenantID id.TenantID, category string, rctx Context) (*Decision, error) {
	if tenantID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}

	cfg, err := e.tenants.Tenant(tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown tenant "+tenantID.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}

	category = strings.ToLower(strings.TrimSpace(category))
	ts := rctx.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}
	withinHours := e.withinBusinessHours(cfg, ts)

	decision := &Decision{
		TenantID:      tenantID,
		Category:      category,
		BusinessHours: withinHours,
	}

	rule, found := cfg.Rule(category)
	switch {
	case found:
		decision.Destination = rule.Destination
		decision.Method = MethodDirect
		decision.Confidence = confidenceDirect
	default:
		if general, ok := cfg.Rule(categoryGeneral); ok {
			rule, found = general, true
			decision.Destination = general.Destination
			decision.Confidence = confidenceGeneral
		} else {
			decision.Destination = e.defaultDestination
			decision.Confidence = confidenceDefault
			decision.SpecialHandling = append(decision.SpecialHandling, flagDefaultAddress)
		}
		decision.Method = MethodFallback
	}

	if found && rule.Escalation.ShouldEscalate(rctx.Priority, withinHours) {
		decision.Escalated = true
		decision.SpecialHandling = append(decision.SpecialHandling, flagEscalated)
		if rule.Escalation.Destination != "" {
			decision.Destination = rule.Escalation.Destination
		}
	}

	e.observe(ctx, decision)
	return decision, nil
}

// withinBusinessHours evaluates the tenant's staffed window against ts in
// the tenant's timezone. Tenants without a configured window are treated as
// always staffed.
func (e *Engine) withinBusinessHours(cfg models.TenantConfig, ts time.Time) bool {
	if cfg.BusinessHours == nil {
		return true
	}
	if cfg.Timezone != "" {
		// Zone validity was checked at load time; a race with tzdata removal
		// falls back to the timestamp's own location.
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			ts = ts.In(loc)
		}
	}
	return cfg.BusinessHours.Contains(ts)
}

func (e *Engine) observe(ctx context.Context, decision *Decision) {
	if e.metrics != nil {
		e.metrics.ObserveDecision(decision.Method, decision.Escalated)
	}
	if e.logger != nil {
		e.logger.DebugContext(ctx, "routing decision",
			"tenant_id", decision.TenantID,
			"category", decision.Category,
			"destination", decision.Destination,
			"method", decision.Method,
			"escalated", decision.Escalated,
			"business_hours", decision.BusinessHours,
		)
	}
}
