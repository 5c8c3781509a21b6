// Package loader reads tenant configuration from a YAML file. It is the
// configuration collaborator the directory builds its snapshots from; swap
// in a database- or API-backed implementation by satisfying
// directory.ConfigSource.
package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mailgate/internal/identify"
	"mailgate/internal/tenant/models"
	dErrors "mailgate/pkg/domain-errors"
)

// File loads tenant configurations from a YAML document of the form:
//
//	tenants:
//	  - id: tenant-acme
//	    name: Acme Corp
//	    domains:
//	      - {value: acme.com, type: primary}
//	      - {value: old-acme.com, type: alias}
//	      - {value: "*.acme.com", type: pattern}
//	    auto_register_www: true
//	    timezone: America/New_York
//	    business_hours: {start: "09:00", end: "17:00", days: [monday, tuesday, wednesday, thursday, friday]}
//	    routing:
//	      - {category: support, destination: support@acme.com, enabled: true}
type File struct {
	Path string
}

type document struct {
	Tenants []models.TenantConfig `yaml:"tenants"`
}

// Load parses the file, validates every tenant, and expands www variants for
// tenants that opted in. The returned slice is freshly built per call so a
// reload never observes partially mutated configuration.
func (f File) Load(_ context.Context) ([]models.TenantConfig, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read tenant configuration")
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "malformed tenant configuration")
	}
	if len(doc.Tenants) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant configuration declares no tenants")
	}

	for i := range doc.Tenants {
		cfg := &doc.Tenants[i]
		for j := range cfg.Domains {
			cfg.Domains[j].TenantID = cfg.ID
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if cfg.AutoRegisterWWW {
			expandWWWAliases(cfg)
		}
	}
	return doc.Tenants, nil
}

// expandWWWAliases registers the "www." variant of each primary domain as an
// alias, using the variant generator as candidate expansion. Explicitly
// configured entries always win over generated ones.
func expandWWWAliases(cfg *models.TenantConfig) {
	registered := make(map[string]struct{}, len(cfg.Domains))
	for _, d := range cfg.Domains {
		registered[strings.ToLower(d.Value)] = struct{}{}
	}

	for _, d := range cfg.Domains {
		if d.Type != models.DomainTypePrimary {
			continue
		}
		for _, variant := range identify.Variants(strings.ToLower(d.Value)) {
			if !strings.HasPrefix(variant, "www.") {
				continue
			}
			if strings.TrimPrefix(variant, "www.") != strings.ToLower(d.Value) {
				// Only the direct www form of the registered domain; parents
				// belong to whoever registered them.
				continue
			}
			if _, dup := registered[variant]; dup {
				continue
			}
			registered[variant] = struct{}{}
			cfg.Domains = append(cfg.Domains, models.DomainRecord{
				TenantID: cfg.ID,
				Value:    variant,
				Type:     models.DomainTypeAlias,
			})
		}
	}
}

// Describe returns a short human-readable source description for logs.
func (f File) Describe() string {
	return fmt.Sprintf("file:%s", f.Path)
}
