package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and snapshot lookups return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the current snapshot
// - ErrConflict: two tenants claim the same resource
// - ErrUnavailable: collaborator (config source, redis) temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
