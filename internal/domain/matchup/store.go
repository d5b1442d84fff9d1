package matchup

import (
	"context"
	"errors"
)

var (
	// ErrInvalidBatch marks a structural violation inside a pairing set.
	ErrInvalidBatch = errors.New("invalid pairing set")

	// ErrAlreadyExists signals a lost creation race: another client's batch
	// was committed first and must be reloaded, never overwritten.
	ErrAlreadyExists = errors.New("matchups already exist for fixture")

	// ErrVersionMismatch signals a lost compare-and-swap on an update; the
	// caller re-reads the batch and retries or reports a conflict.
	ErrVersionMismatch = errors.New("matchup batch version mismatch")
)

// Store persists pairing batches. Implementations must make CreateIfAbsent
// an atomic create-if-absent: under concurrent attempts exactly one wins and
// every other caller receives ErrAlreadyExists. Update is a compare-and-swap
// keyed on Batch.Version; the stored version is incremented on success.
type Store interface {
	Get(ctx context.Context, fixtureID string) (Batch, bool, error)
	CreateIfAbsent(ctx context.Context, batch Batch) error
	Update(ctx context.Context, batch Batch) error
	Delete(ctx context.Context, fixtureID string) error
}
