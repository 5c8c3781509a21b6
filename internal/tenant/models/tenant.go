package models

import (
	"strings"
	"time"

	id "mailgate/pkg/domain"
	dErrors "mailgate/pkg/domain-errors"
)

// DomainType classifies how a tenant owns a domain entry.
type DomainType string

const (
	DomainTypePrimary DomainType = "primary"
	DomainTypeSupport DomainType = "support"
	DomainTypeAlias   DomainType = "alias"
	DomainTypePattern DomainType = "pattern"
)

// DomainRecord binds one domain value (or wildcard pattern) to its owning
// tenant. Records are immutable once a directory snapshot is built.
type DomainRecord struct {
	TenantID id.TenantID `yaml:"-" json:"tenant_id"`
	Value    string      `yaml:"value" json:"value"`
	Type     DomainType  `yaml:"type" json:"type"`
}

// IsPattern reports whether the record is a wildcard pattern entry.
func (r DomainRecord) IsPattern() bool { return r.Type == DomainTypePattern }

// TenantConfig is the per-tenant configuration supplied by the configuration
// collaborator.
//
// Invariants:
//   - ID is non-empty
//   - at least one non-pattern domain is registered
//   - every routing category appears at most once
//   - Timezone, when set, is a valid IANA zone name
//
// TenantConfig is read-only after loading; the directory build copies what it
// needs into the snapshot and never retains mutable references.
type TenantConfig struct {
	ID              id.TenantID    `yaml:"id"`
	Name            string         `yaml:"name"`
	Domains         []DomainRecord `yaml:"domains"`
	AutoRegisterWWW bool           `yaml:"auto_register_www"`
	Routing         []RoutingRule  `yaml:"routing"`
	Timezone        string         `yaml:"timezone"`
	BusinessHours   *BusinessHours `yaml:"business_hours"`
}

// RoutingRule maps one classification category to a delivery destination.
// Category "general" doubles as the tenant-wide fallback.
type RoutingRule struct {
	Category    string          `yaml:"category"`
	Destination string          `yaml:"destination"`
	Enabled     bool            `yaml:"enabled"`
	Escalation  *EscalationRule `yaml:"escalation"`
}

// EscalationRule overrides a routing decision when its conditions match.
// An empty Destination keeps the base rule's destination and only flags the
// decision as escalated.
type EscalationRule struct {
	Destination     string   `yaml:"destination"`
	AfterHours      bool     `yaml:"after_hours"`
	PriorityMarkers []string `yaml:"priority_markers"`
}

// matchesPriority reports whether the given priority marker triggers this
// escalation. Comparison is case-insensitive.
func (e *EscalationRule) matchesPriority(priority string) bool {
	for _, marker := range e.PriorityMarkers {
		if strings.EqualFold(marker, priority) {
			return true
		}
	}
	return false
}

// ShouldEscalate evaluates the rule's conditions against a message context.
func (e *EscalationRule) ShouldEscalate(priority string, withinBusinessHours bool) bool {
	if e == nil {
		return false
	}
	if e.AfterHours && !withinBusinessHours {
		return true
	}
	if priority != "" && e.matchesPriority(priority) {
		return true
	}
	return false
}

// BusinessHours describes a tenant's staffed window in its local timezone.
// Start and End are wall-clock times in "15:04" form; Days holds ISO weekday
// names ("monday".."sunday"). Informational only, never blocks delivery.
type BusinessHours struct {
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
	Days  []string `yaml:"days"`
}

// Validate enforces the TenantConfig invariants. Called at load time so
// configuration errors surface at startup, not per lookup.
func (c *TenantConfig) Validate() error {
	if c.ID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "tenant id is required")
	}
	concrete := 0
	for _, d := range c.Domains {
		if strings.TrimSpace(d.Value) == "" {
			return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": domain value cannot be empty")
		}
		switch d.Type {
		case DomainTypePrimary, DomainTypeSupport, DomainTypeAlias:
			concrete++
		case DomainTypePattern:
		default:
			return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": unknown domain type "+string(d.Type))
		}
	}
	if concrete == 0 {
		return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": at least one concrete domain is required")
	}

	seen := make(map[string]struct{}, len(c.Routing))
	for _, rule := range c.Routing {
		category := strings.ToLower(strings.TrimSpace(rule.Category))
		if category == "" {
			return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": routing rule category is required")
		}
		if rule.Destination == "" {
			return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": routing rule "+category+" has no destination")
		}
		if _, dup := seen[category]; dup {
			return dErrors.New(dErrors.CodeValidation, "tenant "+c.ID.String()+": duplicate routing rule for "+category)
		}
		seen[category] = struct{}{}
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "tenant "+c.ID.String()+": invalid timezone")
		}
	}
	if c.BusinessHours != nil {
		if err := c.BusinessHours.validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "tenant "+c.ID.String()+": invalid business hours")
		}
	}
	return nil
}

// Rule returns the enabled routing rule for a category, if present.
func (c *TenantConfig) Rule(category string) (RoutingRule, bool) {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, rule := range c.Routing {
		if rule.Enabled && strings.ToLower(rule.Category) == category {
			return rule, true
		}
	}
	return RoutingRule{}, false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (h *BusinessHours) validate() error {
	if _, err := time.Parse("15:04", h.Start); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "start must be HH:MM")
	}
	if _, err := time.Parse("15:04", h.End); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "end must be HH:MM")
	}
	for _, day := range h.Days {
		if _, ok := weekdays[strings.ToLower(day)]; !ok {
			return dErrors.New(dErrors.CodeValidation, "unknown weekday "+day)
		}
	}
	return nil
}

// Contains reports whether ts falls inside the window. The caller has already
// converted ts to the tenant's timezone. An empty Days list means every day.
func (h *BusinessHours) Contains(ts time.Time) bool {
	if len(h.Days) > 0 {
		match := false
		for _, day := range h.Days {
			if weekdays[strings.ToLower(day)] == ts.Weekday() {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	start, _ := time.Parse("15:04", h.Start)
	end, _ := time.Parse("15:04", h.End)
	minutes := ts.Hour()*60 + ts.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if startMin <= endMin {
		return minutes >= startMin && minutes < endMin
	}
	// Overnight window, e.g. 22:00-06:00.
	return minutes >= startMin || minutes < endMin
}
