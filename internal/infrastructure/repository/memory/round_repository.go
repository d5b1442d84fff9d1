package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

// RoundRepository is the in-memory round store used by tests and the
// database-less run mode.
type RoundRepository struct {
	mu    sync.RWMutex
	items map[string]round.Round
}

func NewRoundRepository() *RoundRepository {
	return &RoundRepository{items: make(map[string]round.Round)}
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[roundID]
	if !exists {
		return round.Round{}, false, nil
	}
	return cloneRound(item), true, nil
}

func (r *RoundRepository) ListBySeason(_ context.Context, seasonID string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]round.Round, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			result = append(result, cloneRound(item))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Leg != result[j].Leg {
			return result[i].Leg < result[j].Leg
		}
		return result[i].Number < result[j].Number
	})
	return result, nil
}

func (r *RoundRepository) Upsert(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneRound(item)
	return nil
}

func cloneRound(item round.Round) round.Round {
	clone := item
	if item.Deadlines.HomeSubDayOffset != nil {
		v := *item.Deadlines.HomeSubDayOffset
		clone.Deadlines.HomeSubDayOffset = &v
	}
	if item.Deadlines.AwaySubDayOffset != nil {
		v := *item.Deadlines.AwaySubDayOffset
		clone.Deadlines.AwaySubDayOffset = &v
	}
	return clone
}
