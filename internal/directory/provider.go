package directory

import (
	"context"
	"log/slog"
	"sync/atomic"

	directorymetrics "mailgate/internal/directory/metrics"
	"mailgate/internal/identify"
	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
)

// ConfigSource is the configuration collaborator: it produces the tenant
// configurations a snapshot is built from.
type ConfigSource interface {
	Load(ctx context.Context) ([]models.TenantConfig, error)
}

// Provider owns the only mutable shared state in the core: the pointer to
// the current snapshot. Reload builds a brand-new Directory and swaps the
// pointer atomically; in-flight lookups keep the snapshot they started with.
type Provider struct {
	source  ConfigSource
	current atomic.Pointer[Directory]
	logger  *slog.Logger
	metrics *directorymetrics.Metrics
}

// ProviderOption configures a Provider.
type ProviderOption func(p *Provider)

func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

func WithMetrics(m *directorymetrics.Metrics) ProviderOption {
	return func(p *Provider) { p.metrics = m }
}

// NewProvider constructs a provider and builds the initial snapshot. A
// failed initial build is fatal: the gateway must not start without a
// consistent directory.
func NewProvider(ctx context.Context, source ConfigSource, opts ...ProviderOption) (*Provider, error) {
	if source == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "config source is required")
	}
	p := &Provider{source: source}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload rebuilds the directory from the configuration collaborator and
// swaps it in. On failure the previous snapshot stays active.
func (p *Provider) Reload(ctx context.Context) error {
	configs, err := p.source.Load(ctx)
	if err != nil {
		p.observeReload(ctx, nil, err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant configuration")
	}
	dir, err := Build(configs)
	if err != nil {
		p.observeReload(ctx, nil, err)
		return err
	}
	p.current.Store(dir)
	p.observeReload(ctx, dir, nil)
	return nil
}

// Current returns the active snapshot.
func (p *Provider) Current() *Directory {
	return p.current.Load()
}

// Snapshot exposes the active snapshot as the matcher's read-only view.
func (p *Provider) Snapshot() identify.DomainIndex {
	return p.current.Load()
}

// Tenant resolves a tenant in the active snapshot.
func (p *Provider) Tenant(tenantID id.TenantID) (models.TenantConfig, error) {
	return p.current.Load().Tenant(tenantID)
}

func (p *Provider) observeReload(ctx context.Context, dir *Directory, err error) {
	if err != nil {
		if p.metrics != nil {
			p.metrics.IncrementReloadFailed()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "directory reload failed", "error", err)
		}
		return
	}
	if p.metrics != nil {
		p.metrics.ObserveReload(dir.TenantCount(), dir.DomainCount())
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, "directory reloaded",
			"tenants", dir.TenantCount(),
			"domains", dir.DomainCount(),
			"patterns", len(dir.Patterns()),
		)
	}
}
