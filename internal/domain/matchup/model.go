package matchup

import (
	"fmt"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
)

// Substitution records one side's player replacement on a pairing. The
// original player is captured when the first substitution happens and is
// never overwritten by later substitutions on the same side, so the audit
// trail always names the player who actually started.
type Substitution struct {
	OriginalPlayer lineup.Player
	PenaltyGoals   int
	MadeAt         time.Time
}

// Pairing is one player-vs-player assignment within a fixture.
type Pairing struct {
	Position        int
	HomePlayer      lineup.Player
	AwayPlayer      lineup.Player
	DurationMinutes int

	HomeGoals *int
	AwayGoals *int

	HomeSubstitution *Substitution
	AwaySubstitution *Substitution
}

// Batch is the full pairing set of a fixture. Pairings are created in one
// atomic write and every later mutation is a compare-and-swap on Version.
type Batch struct {
	FixtureID string
	CreatedBy string
	CreatedAt time.Time
	Version   int64
	Pairings  []Pairing
}

// Pairing returns the pairing at the given position.
func (b Batch) Pairing(position int) (Pairing, bool) {
	for _, p := range b.Pairings {
		if p.Position == position {
			return p, true
		}
	}
	return Pairing{}, false
}

// HasPlayerOnSide reports whether the player is currently assigned on the
// given side of any pairing, excluding the pairing at skipPosition (pass 0
// to check all pairings).
func (b Batch) HasPlayerOnSide(playerID string, home bool, skipPosition int) bool {
	for _, p := range b.Pairings {
		if p.Position == skipPosition {
			continue
		}
		if home && p.HomePlayer.ID == playerID {
			return true
		}
		if !home && p.AwayPlayer.ID == playerID {
			return true
		}
	}
	return false
}

// HasResults reports whether any pairing has an entered score.
func (b Batch) HasResults() bool {
	for _, p := range b.Pairings {
		if p.HomeGoals != nil || p.AwayGoals != nil {
			return true
		}
	}
	return false
}

// Validate enforces the structural invariants of a pairing set: the
// expected size, contiguous positions, and away-player uniqueness.
func (b Batch) Validate(size int) error {
	if len(b.Pairings) != size {
		return fmt.Errorf("%w: expected %d pairings, got %d", ErrInvalidBatch, size, len(b.Pairings))
	}

	positions := make(map[int]struct{}, len(b.Pairings))
	awayPlayers := make(map[string]struct{}, len(b.Pairings))
	for _, p := range b.Pairings {
		if p.Position < 1 || p.Position > size {
			return fmt.Errorf("%w: position %d out of range 1..%d", ErrInvalidBatch, p.Position, size)
		}
		if _, exists := positions[p.Position]; exists {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidBatch, p.Position)
		}
		positions[p.Position] = struct{}{}

		if p.HomePlayer.ID == "" || p.AwayPlayer.ID == "" {
			return fmt.Errorf("%w: pairing %d is missing a player", ErrInvalidBatch, p.Position)
		}
		if _, exists := awayPlayers[p.AwayPlayer.ID]; exists {
			return fmt.Errorf("%w: away player %s assigned to more than one pairing", ErrInvalidBatch, p.AwayPlayer.ID)
		}
		awayPlayers[p.AwayPlayer.ID] = struct{}{}
	}

	return nil
}
