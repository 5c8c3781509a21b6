// Package directory builds and serves immutable tenant-directory snapshots.
//
// A Directory is a point-in-time index of every known tenant domain, alias
// and wildcard pattern. It is built wholesale from the tenant configuration
// and never mutated; reloads build a fresh Directory and swap it atomically
// (see Provider). Lookups therefore need no locking.
package directory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mailgate/internal/identify"
	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
	"mailgate/pkg/platform/sentinel"
)

// Directory is an immutable snapshot of the tenant domain index.
type Directory struct {
	builtAt  time.Time
	tenants  map[id.TenantID]models.TenantConfig
	records  map[string]models.DomainRecord
	patterns []models.DomainRecord
	domains  []string
}

// Build validates tenant configurations and indexes their domains into a new
// snapshot. A domain or pattern claimed by two tenants fails the build with a
// conflict error: silently picking a winner would be unsafe.
func Build(configs []models.TenantConfig) (*Directory, error) {
	d := &Directory{
		builtAt: time.Now(),
		tenants: make(map[id.TenantID]models.TenantConfig, len(configs)),
		records: make(map[string]models.DomainRecord),
	}

	patternOwners := make(map[string]id.TenantID)
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := d.tenants[cfg.ID]; dup {
			return nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict,
				fmt.Sprintf("tenant %s configured twice", cfg.ID))
		}
		d.tenants[cfg.ID] = cfg

		for _, rec := range cfg.Domains {
			rec.TenantID = cfg.ID
			if rec.IsPattern() {
				if err := d.addPattern(rec, patternOwners); err != nil {
					return nil, err
				}
				continue
			}
			if err := d.addRecord(rec); err != nil {
				return nil, err
			}
		}
	}

	d.domains = make([]string, 0, len(d.records))
	for domain := range d.records {
		d.domains = append(d.domains, domain)
	}
	sort.Strings(d.domains)
	sort.Slice(d.patterns, func(i, j int) bool { return d.patterns[i].Value < d.patterns[j].Value })
	return d, nil
}

func (d *Directory) addRecord(rec models.DomainRecord) error {
	normalized, ok := identify.Normalize(rec.Value)
	if !ok {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("tenant %s: invalid domain %q", rec.TenantID, rec.Value))
	}
	rec.Value = normalized
	if existing, taken := d.records[normalized]; taken {
		if existing.TenantID == rec.TenantID {
			// Same tenant registering a domain twice (e.g. a configured alias
			// colliding with an auto-registered variant) keeps the stronger type.
			if existing.Type == models.DomainTypeAlias && rec.Type != models.DomainTypeAlias {
				d.records[normalized] = rec
			}
			return nil
		}
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict,
			fmt.Sprintf("domain %s claimed by tenants %s and %s", normalized, existing.TenantID, rec.TenantID))
	}
	d.records[normalized] = rec
	return nil
}

func (d *Directory) addPattern(rec models.DomainRecord, owners map[string]id.TenantID) error {
	value := strings.ToLower(strings.TrimSpace(rec.Value))
	if !validPattern(value) {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("tenant %s: invalid pattern %q (want *.domain or prefix.*)", rec.TenantID, rec.Value))
	}
	rec.Value = value
	if owner, taken := owners[value]; taken && owner != rec.TenantID {
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict,
			fmt.Sprintf("pattern %s claimed by tenants %s and %s", value, owner, rec.TenantID))
	}
	if _, taken := owners[value]; taken {
		return nil
	}
	owners[value] = rec.TenantID
	d.patterns = append(d.patterns, rec)
	return nil
}

// validPattern accepts exactly one wildcard, at the leftmost ("*.domain") or
// rightmost ("prefix.*") label.
func validPattern(value string) bool {
	if strings.Count(value, "*") != 1 {
		return false
	}
	if base, ok := strings.CutPrefix(value, "*."); ok {
		_, valid := identify.Normalize(base)
		return valid
	}
	if prefix, ok := strings.CutSuffix(value, ".*"); ok {
		return prefix != "" && !strings.Contains(prefix, ".") && !strings.Contains(prefix, "*")
	}
	return false
}

// Lookup resolves a normalized concrete domain to its owning record.
func (d *Directory) Lookup(domain string) (models.DomainRecord, bool) {
	rec, ok := d.records[domain]
	return rec, ok
}

// Domains lists every concrete domain in the snapshot, sorted ascending.
// Callers must not mutate the returned slice.
func (d *Directory) Domains() []string { return d.domains }

// Patterns lists every wildcard pattern record.
func (d *Directory) Patterns() []models.DomainRecord { return d.patterns }

// Tenant returns a tenant's configuration or sentinel.ErrNotFound.
func (d *Directory) Tenant(tenantID id.TenantID) (models.TenantConfig, error) {
	cfg, ok := d.tenants[tenantID]
	if !ok {
		return models.TenantConfig{}, fmt.Errorf("tenant %s: %w", tenantID, sentinel.ErrNotFound)
	}
	return cfg, nil
}

// TenantCount returns the number of tenants in the snapshot.
func (d *Directory) TenantCount() int { return len(d.tenants) }

// DomainCount returns the number of concrete domains in the snapshot.
func (d *Directory) DomainCount() int { return len(d.records) }

// BuiltAt reports when the snapshot was built.
func (d *Directory) BuiltAt() time.Time { return d.builtAt }
