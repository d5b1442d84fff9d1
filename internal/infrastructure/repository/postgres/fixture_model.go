package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	SeasonID       string         `db:"season_public_id"`
	RoundID        string         `db:"round_public_id"`
	MatchNumber    int            `db:"match_number"`
	HomeTeamID     string         `db:"home_team_public_id"`
	AwayTeamID     string         `db:"away_team_public_id"`
	HomeTeamName   string         `db:"home_team_name"`
	AwayTeamName   string         `db:"away_team_name"`
	Status         string         `db:"status"`
	HomeScore      sql.NullInt64  `db:"home_score"`
	AwayScore      sql.NullInt64  `db:"away_score"`
	Outcome        sql.NullString `db:"outcome"`
	HomeFineGoals  int            `db:"home_fine_goals"`
	AwayFineGoals  int            `db:"away_fine_goals"`
	MOTMPlayerID   sql.NullString `db:"motm_player_public_id"`
	MOTMPlayerName sql.NullString `db:"motm_player_name"`
	CompletedAt    *time.Time     `db:"completed_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}
