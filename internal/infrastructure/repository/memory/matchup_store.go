package memory

import (
	"context"
	"sync"

	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
)

// MatchupStore keeps pairing batches under a single mutex, which makes the
// create-if-absent and compare-and-swap guarantees trivial: the critical
// sections cover the read and the write together.
type MatchupStore struct {
	mu    sync.Mutex
	items map[string]matchup.Batch
}

func NewMatchupStore() *MatchupStore {
	return &MatchupStore{items: make(map[string]matchup.Batch)}
}

func (s *MatchupStore) Get(_ context.Context, fixtureID string) (matchup.Batch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[fixtureID]
	if !exists {
		return matchup.Batch{}, false, nil
	}
	return cloneBatch(item), true, nil
}

func (s *MatchupStore) CreateIfAbsent(_ context.Context, batch matchup.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[batch.FixtureID]; exists {
		return matchup.ErrAlreadyExists
	}
	if batch.Version < 1 {
		batch.Version = 1
	}
	s.items[batch.FixtureID] = cloneBatch(batch)
	return nil
}

func (s *MatchupStore) Update(_ context.Context, batch matchup.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.items[batch.FixtureID]
	if !exists {
		return matchup.ErrVersionMismatch
	}
	if current.Version != batch.Version {
		return matchup.ErrVersionMismatch
	}
	next := cloneBatch(batch)
	next.Version = current.Version + 1
	s.items[batch.FixtureID] = next
	return nil
}

func (s *MatchupStore) Delete(_ context.Context, fixtureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, fixtureID)
	return nil
}

func cloneBatch(item matchup.Batch) matchup.Batch {
	clone := item
	clone.Pairings = make([]matchup.Pairing, len(item.Pairings))
	for i, p := range item.Pairings {
		cp := p
		if p.HomeGoals != nil {
			v := *p.HomeGoals
			cp.HomeGoals = &v
		}
		if p.AwayGoals != nil {
			v := *p.AwayGoals
			cp.AwayGoals = &v
		}
		if p.HomeSubstitution != nil {
			v := *p.HomeSubstitution
			cp.HomeSubstitution = &v
		}
		if p.AwaySubstitution != nil {
			v := *p.AwaySubstitution
			cp.AwaySubstitution = &v
		}
		clone.Pairings[i] = cp
	}
	return clone
}
