package identify

import (
	"context"
	"log/slog"
	"sort"
	"time"

	identifymetrics "mailgate/internal/identify/metrics"
	id "mailgate/pkg/domain"
)

// Source supplies the current directory snapshot. Every lookup reads the
// snapshot exactly once, so in-flight lookups are unaffected by reloads.
type Source interface {
	Snapshot() DomainIndex
}

// Pipeline orchestrates the domain matcher against the tenant directory.
// It is read-only over the snapshots it is handed and safe for concurrent
// use from many request-handling goroutines.
type Pipeline struct {
	source  Source
	cfg     MatcherConfig
	logger  *slog.Logger
	metrics *identifymetrics.Metrics
}

// Option configures a Pipeline.
type Option func(p *Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithMetrics(m *identifymetrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithFuzzyMatching toggles the fuzzy_match strategy.
func WithFuzzyMatching(enabled bool) Option {
	return func(p *Pipeline) { p.cfg.EnableFuzzyMatching = enabled }
}

// WithHierarchyMatching toggles the hierarchy_match strategy.
func WithHierarchyMatching(enabled bool) Option {
	return func(p *Pipeline) { p.cfg.EnableHierarchyMatching = enabled }
}

// WithConfidenceThreshold sets the minimum raw similarity for fuzzy_match
// acceptance. Non-positive values keep the default.
func WithConfidenceThreshold(threshold float64) Option {
	return func(p *Pipeline) {
		if threshold > 0 {
			p.cfg.ConfidenceThreshold = threshold
		}
	}
}

// NewPipeline constructs an identification pipeline over a snapshot source.
func NewPipeline(source Source, opts ...Option) *Pipeline {
	p := &Pipeline{source: source, cfg: DefaultMatcherConfig()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IdentifyByDomain resolves a raw domain to a tenant. A result is always
// returned; malformed input yields a no_match result, never an error.
func (p *Pipeline) IdentifyByDomain(ctx context.Context, rawDomain string) Result {
	start := time.Now()

	domain, ok := Normalize(rawDomain)
	if !ok {
		result := noMatch(rawDomain)
		p.observe(ctx, result, start)
		return result
	}

	match := MatchDomain(domain, p.source.Snapshot(), p.cfg)
	result := Result{
		InputDomain: domain,
		Confidence:  match.Confidence,
		Method:      match.Method,
	}
	if match.Matched() {
		result.TenantID = match.Record.TenantID
		result.DomainUsed = match.Record.Value
		result.Successful = true
	}
	p.observe(ctx, result, start)
	return result
}

// IdentifyByEmail extracts the address's domain and delegates to
// IdentifyByDomain. Extraction failure yields a no_match result.
func (p *Pipeline) IdentifyByEmail(ctx context.Context, rawEmail string) Result {
	domain, ok := ExtractDomainFromEmail(rawEmail)
	if !ok {
		start := time.Now()
		result := noMatch(rawEmail)
		p.observe(ctx, result, start)
		return result
	}
	return p.IdentifyByDomain(ctx, domain)
}

// FindSimilarTenants scores every known domain against the input, keeps the
// best score per tenant, and returns suggestions sorted by score descending
// then tenant id ascending, truncated to limit. Meant for operators triaging
// messages that failed identification.
func (p *Pipeline) FindSimilarTenants(ctx context.Context, rawDomain string, limit int) []Suggestion {
	if p.metrics != nil {
		p.metrics.IncrementSimilaritySearch()
	}
	if limit <= 0 {
		return nil
	}
	domain, ok := Normalize(rawDomain)
	if !ok {
		return nil
	}

	snapshot := p.source.Snapshot()
	best := make(map[id.TenantID]float64)
	for _, known := range snapshot.Domains() {
		rec, ok := snapshot.Lookup(known)
		if !ok {
			continue
		}
		score := Similarity(domain, known)
		if score > best[rec.TenantID] {
			best[rec.TenantID] = score
		}
	}

	suggestions := make([]Suggestion, 0, len(best))
	for tenantID, score := range best {
		if score <= 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{TenantID: tenantID, Score: score})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].TenantID < suggestions[j].TenantID
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func (p *Pipeline) observe(ctx context.Context, result Result, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveIdentification(string(result.Method), start)
	}
	if p.logger != nil {
		p.logger.DebugContext(ctx, "tenant identification",
			"input_domain", result.InputDomain,
			"tenant_id", result.TenantID,
			"method", result.Method,
			"confidence", result.Confidence,
			"successful", result.Successful,
		)
	}
}
