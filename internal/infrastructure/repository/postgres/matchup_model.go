package postgres

import "time"

type matchupTableModel struct {
	ID        int64     `db:"id"`
	FixtureID string    `db:"fixture_public_id"`
	CreatedBy string    `db:"created_by_team_public_id"`
	Version   int64     `db:"version"`
	Pairings  []byte    `db:"pairings"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type substitutionDocument struct {
	OriginalPlayer playerDocument `json:"original_player"`
	PenaltyGoals   int            `json:"penalty_goals"`
	MadeAt         time.Time      `json:"made_at"`
}

type pairingDocument struct {
	Position        int            `json:"position"`
	HomePlayer      playerDocument `json:"home_player"`
	AwayPlayer      playerDocument `json:"away_player"`
	DurationMinutes int            `json:"duration_minutes"`

	HomeGoals *int `json:"home_goals,omitempty"`
	AwayGoals *int `json:"away_goals,omitempty"`

	HomeSubstitution *substitutionDocument `json:"home_substitution,omitempty"`
	AwaySubstitution *substitutionDocument `json:"away_substitution,omitempty"`
}
