package routing

import (
	"time"

	id "mailgate/pkg/domain"
)

// Method names how a routing decision was produced.
const (
	MethodDirect   = "direct"
	MethodFallback = "fallback"
)

// Confidence anchors per routing method.
const (
	confidenceDirect   = 1.0
	confidenceGeneral  = 0.8
	confidenceDefault  = 0.5
	categoryGeneral    = "general"
	flagEscalated      = "escalated"
	flagDefaultAddress = "default_destination"
)

// Context carries the per-message facts the engine evaluates escalation and
// business-hours policy against. Timestamp zero means "now".
type Context struct {
	Timestamp time.Time `json:"timestamp"`
	Priority  string    `json:"priority"`
}

// Decision is an immutable routing outcome, created fresh per call.
//
// BusinessHours is informational: it reports whether the message arrived
// inside the tenant's staffed window and never blocks delivery.
type Decision struct {
	TenantID        id.TenantID `json:"tenant_id"`
	Category        string      `json:"category"`
	Destination     string      `json:"destination"`
	Confidence      float64     `json:"confidence"`
	Method          string      `json:"method"`
	SpecialHandling []string    `json:"special_handling,omitempty"`
	Escalated       bool        `json:"escalated"`
	BusinessHours   bool        `json:"business_hours"`
}
