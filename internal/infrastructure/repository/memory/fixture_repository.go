package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[string]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{items: make(map[string]fixture.Fixture)}
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[fixtureID]
	if !exists {
		return fixture.Fixture{}, false, nil
	}
	return cloneFixture(item), true, nil
}

func (r *FixtureRepository) ListByRound(_ context.Context, roundID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]fixture.Fixture, 0)
	for _, item := range r.items {
		if item.RoundID == roundID {
			result = append(result, cloneFixture(item))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MatchNumber < result[j].MatchNumber
	})
	return result, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, item fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneFixture(item)
	return nil
}

func cloneFixture(item fixture.Fixture) fixture.Fixture {
	clone := item
	clone.HomeScore = cloneIntPtr(item.HomeScore)
	clone.AwayScore = cloneIntPtr(item.AwayScore)
	if item.CompletedAt != nil {
		v := *item.CompletedAt
		clone.CompletedAt = &v
	}
	return clone
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
