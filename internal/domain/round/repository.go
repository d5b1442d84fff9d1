package round

import "context"

// Repository exposes round-deadline configuration lookups and updates.
type Repository interface {
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Round, error)
	Upsert(ctx context.Context, item Round) error
}
