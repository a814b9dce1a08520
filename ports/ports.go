// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no record matches the given id.
// Callers branch on it with errors.Is.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// TransformMetrics records engine-level counters. Implementations must
// be safe for concurrent use.
type TransformMetrics interface {
	// DocumentTransformed records one completed transformation.
	DocumentTransformed(d time.Duration)
	// SlotsMutated records slots actually written by a rule.
	SlotsMutated(ruleID string, n int)
	// RulesReloaded records a rule-file reload attempt.
	RulesReloaded(ok bool)
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// DocumentStore persists JSON documents by id.
type DocumentStore interface {
	// Get retrieves a document by id.
	Get(ctx context.Context, id string) (any, error)

	// Put stores or replaces a document.
	Put(ctx context.Context, id string, doc any) error

	// List returns all document ids in stable order.
	List(ctx context.Context) ([]string, error)
}
