package fixture

import "context"

// Repository exposes fixture reads, creation during round administration
// and the result-entry update.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	ListByRound(ctx context.Context, roundID string) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) error
}
