package lineup

import "time"

// Player is a squad member reference carried through lineups and matchups.
type Player struct {
	ID   string
	Name string
}

// Lineup is one team's ordered starting list plus reserves for a fixture.
// It stays private to the submitting team until matchups referencing it
// exist.
type Lineup struct {
	FixtureID   string
	TeamID      string
	Starters    []Player
	Reserves    []Player
	SubmittedBy string
	SubmittedAt time.Time
}

// Contains reports whether the player appears among starters or reserves.
func (l Lineup) Contains(playerID string) bool {
	for _, p := range l.Starters {
		if p.ID == playerID {
			return true
		}
	}
	for _, p := range l.Reserves {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Starter returns the named player only if they start. Reserves enter play
// exclusively through the substitution flow, which records the swap and its
// penalty.
func (l Lineup) Starter(playerID string) (Player, bool) {
	for _, p := range l.Starters {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

// Find returns the named player from starters or reserves.
func (l Lineup) Find(playerID string) (Player, bool) {
	for _, p := range l.Starters {
		if p.ID == playerID {
			return p, true
		}
	}
	for _, p := range l.Reserves {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}
