package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

const (
	OutcomeHomeWin = "home_win"
	OutcomeAwayWin = "away_win"
	OutcomeDraw    = "draw"
)

// Fixture is one meeting of two teams within a round and leg. Identity
// fields are immutable after creation; score and outcome fields are filled
// during result entry.
type Fixture struct {
	ID           string
	SeasonID     string
	RoundID      string
	MatchNumber  int
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	Status       string

	HomeScore *int
	AwayScore *int
	Outcome   string

	// Fine goals are added to a side's own total independent of player
	// performance (administrative penalties).
	HomeFineGoals int
	AwayFineGoals int

	MOTMPlayerID   string
	MOTMPlayerName string

	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// Side reports which side of the fixture the team plays on.
func (f Fixture) Side(teamID string) (home bool, ok bool) {
	switch teamID {
	case f.HomeTeamID:
		return true, true
	case f.AwayTeamID:
		return false, true
	default:
		return false, false
	}
}

func (f Fixture) IsCompleted() bool {
	return NormalizeStatus(f.Status) == StatusCompleted
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}
