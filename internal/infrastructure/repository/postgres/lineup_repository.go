package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) Get(ctx context.Context, fixtureID, teamID string) (lineup.Lineup, bool, error) {
	query := `SELECT id, fixture_public_id, team_public_id, starters, reserves, submitted_by, submitted_at, created_at, updated_at
FROM lineups WHERE fixture_public_id = $1 AND team_public_id = $2`

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, fixtureID, teamID); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	item, err := lineupFromRow(row)
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	return item, true, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, item lineup.Lineup) error {
	starters, err := sonic.Marshal(playerDocuments(item.Starters))
	if err != nil {
		return fmt.Errorf("marshal starters: %w", err)
	}
	reserves, err := sonic.Marshal(playerDocuments(item.Reserves))
	if err != nil {
		return fmt.Errorf("marshal reserves: %w", err)
	}

	query := `INSERT INTO lineups (fixture_public_id, team_public_id, starters, reserves, submitted_by, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (fixture_public_id, team_public_id) DO UPDATE SET
    starters = EXCLUDED.starters,
    reserves = EXCLUDED.reserves,
    submitted_by = EXCLUDED.submitted_by,
    submitted_at = EXCLUDED.submitted_at,
    updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query,
		item.FixtureID,
		item.TeamID,
		starters,
		reserves,
		item.SubmittedBy,
		item.SubmittedAt,
	); err != nil {
		return fmt.Errorf("upsert lineup: %w", err)
	}
	return nil
}

func lineupFromRow(row lineupTableModel) (lineup.Lineup, error) {
	var starters, reserves []playerDocument
	if len(row.Starters) > 0 {
		if err := sonic.Unmarshal(row.Starters, &starters); err != nil {
			return lineup.Lineup{}, fmt.Errorf("unmarshal starters: %w", err)
		}
	}
	if len(row.Reserves) > 0 {
		if err := sonic.Unmarshal(row.Reserves, &reserves); err != nil {
			return lineup.Lineup{}, fmt.Errorf("unmarshal reserves: %w", err)
		}
	}

	return lineup.Lineup{
		FixtureID:   row.FixtureID,
		TeamID:      row.TeamID,
		Starters:    playersFromDocuments(starters),
		Reserves:    playersFromDocuments(reserves),
		SubmittedBy: row.SubmittedBy,
		SubmittedAt: row.SubmittedAt,
	}, nil
}

func playerDocuments(players []lineup.Player) []playerDocument {
	docs := make([]playerDocument, 0, len(players))
	for _, p := range players {
		docs = append(docs, playerDocument{ID: p.ID, Name: p.Name})
	}
	return docs
}

func playersFromDocuments(docs []playerDocument) []lineup.Player {
	players := make([]lineup.Player, 0, len(docs))
	for _, d := range docs {
		players = append(players, lineup.Player{ID: d.ID, Name: d.Name})
	}
	return players
}
