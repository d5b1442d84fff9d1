package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
)

type lineupKey struct {
	fixtureID string
	teamID    string
}

type LineupRepository struct {
	mu    sync.RWMutex
	items map[lineupKey]lineup.Lineup
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[lineupKey]lineup.Lineup)}
}

func (r *LineupRepository) Get(_ context.Context, fixtureID, teamID string) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[lineupKey{fixtureID: fixtureID, teamID: teamID}]
	if !exists {
		return lineup.Lineup{}, false, nil
	}
	return cloneLineup(item), true, nil
}

func (r *LineupRepository) Upsert(_ context.Context, item lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[lineupKey{fixtureID: item.FixtureID, teamID: item.TeamID}] = cloneLineup(item)
	return nil
}

func cloneLineup(item lineup.Lineup) lineup.Lineup {
	clone := item
	clone.Starters = append([]lineup.Player(nil), item.Starters...)
	clone.Reserves = append([]lineup.Player(nil), item.Reserves...)
	return clone
}
