// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct string types so the compiler rejects accidental mixing of
// a tenant identifier with an arbitrary domain or destination string.
package domain

import (
	"strings"

	dErrors "mailgate/pkg/domain-errors"
)

// TenantID identifies a tenant organization. Tenant IDs come from the tenant
// configuration file and are stable across directory rebuilds.
type TenantID string

func (t TenantID) String() string { return string(t) }

// IsZero reports whether the ID is empty.
func (t TenantID) IsZero() bool { return t == "" }

// ParseTenantID validates a raw tenant identifier at a trust boundary.
// IDs must be non-empty and free of surrounding whitespace.
func ParseTenantID(raw string) (TenantID, error) {
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tenant id cannot be empty")
	}
	if strings.TrimSpace(raw) != raw {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tenant id cannot contain surrounding whitespace")
	}
	return TenantID(raw), nil
}
