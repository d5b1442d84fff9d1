package lineup

import "context"

// Repository stores one lineup per (fixture, team).
type Repository interface {
	Get(ctx context.Context, fixtureID, teamID string) (Lineup, bool, error)
	Upsert(ctx context.Context, item Lineup) error
}
