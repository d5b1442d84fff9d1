package result

import (
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
)

// Breakdown separates a side's total into its components so downstream
// statistics never double-count fine goals as player performance.
type Breakdown struct {
	PlayerGoals           int `json:"player_goals"`
	SubstitutionPenalties int `json:"substitution_penalties"`
	FineGoals             int `json:"fine_goals"`
	Total                 int `json:"total"`
}

// PairingLine is one pairing's contribution to a finalized result.
type PairingLine struct {
	Position     int    `json:"position"`
	HomePlayerID string `json:"home_player_id"`
	AwayPlayerID string `json:"away_player_id"`
	HomeGoals    int    `json:"home_goals"`
	AwayGoals    int    `json:"away_goals"`
}

// SubstitutionRecord is the audit entry for one substitution made during
// the fixture.
type SubstitutionRecord struct {
	Position         int       `json:"position"`
	HomeSide         bool      `json:"home_side"`
	OriginalPlayerID string    `json:"original_player_id"`
	ActivePlayerID   string    `json:"active_player_id"`
	PenaltyGoals     int       `json:"penalty_goals"`
	MadeAt           time.Time `json:"made_at"`
}

// FixtureResult is the finalized-result event emitted once result entry
// commits. It is the engine's only outbound contract.
type FixtureResult struct {
	EventID     string    `json:"event_id"`
	FixtureID   string    `json:"fixture_id"`
	SeasonID    string    `json:"season_id"`
	RoundID     string    `json:"round_id"`
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	Home        Breakdown `json:"home"`
	Away        Breakdown `json:"away"`
	Outcome     string    `json:"outcome"`
	MOTMPlayer  string    `json:"motm_player_id"`
	FinalizedAt time.Time `json:"finalized_at"`

	Pairings      []PairingLine        `json:"pairings"`
	Substitutions []SubstitutionRecord `json:"substitutions,omitempty"`
}

// Totals computes both sides' breakdowns from a scored batch and the
// fixture's fine goals. A side's substitution penalties credit the opponent:
// penalties recorded on away substitutions count toward the home total and
// vice versa.
func Totals(batch matchup.Batch, fx fixture.Fixture) (home, away Breakdown) {
	for _, p := range batch.Pairings {
		if p.HomeGoals != nil {
			home.PlayerGoals += *p.HomeGoals
		}
		if p.AwayGoals != nil {
			away.PlayerGoals += *p.AwayGoals
		}
		if p.AwaySubstitution != nil {
			home.SubstitutionPenalties += p.AwaySubstitution.PenaltyGoals
		}
		if p.HomeSubstitution != nil {
			away.SubstitutionPenalties += p.HomeSubstitution.PenaltyGoals
		}
	}
	home.FineGoals = fx.HomeFineGoals
	away.FineGoals = fx.AwayFineGoals
	home.Total = home.PlayerGoals + home.SubstitutionPenalties + home.FineGoals
	away.Total = away.PlayerGoals + away.SubstitutionPenalties + away.FineGoals
	return home, away
}

// Outcome maps two totals to a fixture outcome.
func Outcome(homeTotal, awayTotal int) string {
	switch {
	case homeTotal > awayTotal:
		return fixture.OutcomeHomeWin
	case awayTotal > homeTotal:
		return fixture.OutcomeAwayWin
	default:
		return fixture.OutcomeDraw
	}
}
