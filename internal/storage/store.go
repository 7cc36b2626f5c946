package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is missing from storage.
var ErrNotFound = errors.New("storage: record not found")

// PlanStore memoizes planned trips keyed by request fingerprint. Payloads
// are opaque serialized responses; the store never inspects them.
type PlanStore interface {
	// GetPlan returns the cached payload for a fingerprint, or ErrNotFound.
	GetPlan(ctx context.Context, fingerprint string) ([]byte, error)

	// PutPlan stores a payload under a fingerprint, replacing any previous
	// entry. Entries may expire or be evicted at the store's discretion.
	PutPlan(ctx context.Context, fingerprint string, payload []byte) error

	// Close releases the store's resources.
	Close() error
}
