package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

const fixtureSelectColumns = `id, public_id, season_public_id, round_public_id, match_number,
home_team_public_id, away_team_public_id, home_team_name, away_team_name, status,
home_score, away_score, outcome, home_fine_goals, away_fine_goals,
motm_player_public_id, motm_player_name, completed_at, created_at, updated_at`

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query := `SELECT ` + fixtureSelectColumns + ` FROM fixtures WHERE public_id = $1`

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, fixtureID); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) ListByRound(ctx context.Context, roundID string) ([]fixture.Fixture, error) {
	query := `SELECT ` + fixtureSelectColumns + ` FROM fixtures WHERE round_public_id = $1 ORDER BY match_number`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, roundID); err != nil {
		return nil, fmt.Errorf("list fixtures by round: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) error {
	query := `INSERT INTO fixtures (
    public_id, season_public_id, round_public_id, match_number,
    home_team_public_id, away_team_public_id, home_team_name, away_team_name,
    status, home_score, away_score, outcome, home_fine_goals, away_fine_goals,
    motm_player_public_id, motm_player_name, completed_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, NULLIF($15, ''), NULLIF($16, ''), $17, $18)
ON CONFLICT (public_id) DO UPDATE SET
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    outcome = EXCLUDED.outcome,
    home_fine_goals = EXCLUDED.home_fine_goals,
    away_fine_goals = EXCLUDED.away_fine_goals,
    motm_player_public_id = EXCLUDED.motm_player_public_id,
    motm_player_name = EXCLUDED.motm_player_name,
    completed_at = EXCLUDED.completed_at,
    updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.SeasonID,
		item.RoundID,
		item.MatchNumber,
		item.HomeTeamID,
		item.AwayTeamID,
		item.HomeTeamName,
		item.AwayTeamName,
		fixture.NormalizeStatus(item.Status),
		nullableInt(item.HomeScore),
		nullableInt(item.AwayScore),
		item.Outcome,
		item.HomeFineGoals,
		item.AwayFineGoals,
		item.MOTMPlayerID,
		item.MOTMPlayerName,
		item.CompletedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert fixture: %w", err)
	}
	return nil
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	item := fixture.Fixture{
		ID:             row.PublicID,
		SeasonID:       row.SeasonID,
		RoundID:        row.RoundID,
		MatchNumber:    row.MatchNumber,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		HomeTeamName:   row.HomeTeamName,
		AwayTeamName:   row.AwayTeamName,
		Status:         fixture.NormalizeStatus(row.Status),
		Outcome:        row.Outcome.String,
		HomeFineGoals:  row.HomeFineGoals,
		AwayFineGoals:  row.AwayFineGoals,
		MOTMPlayerID:   row.MOTMPlayerID.String,
		MOTMPlayerName: row.MOTMPlayerName.String,
		CompletedAt:    row.CompletedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.HomeScore.Valid {
		v := int(row.HomeScore.Int64)
		item.HomeScore = &v
	}
	if row.AwayScore.Valid {
		v := int(row.AwayScore.Int64)
		item.AwayScore = &v
	}
	return item
}
