package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
)

// MatchupStore keeps each fixture's pairing set in a single row, pairings
// serialized as a JSONB document. One row per fixture turns the domain
// guarantees into plain SQL: create-if-absent is INSERT ON CONFLICT DO
// NOTHING, compare-and-swap is UPDATE guarded by the version column.
type MatchupStore struct {
	db *sqlx.DB
}

func NewMatchupStore(db *sqlx.DB) *MatchupStore {
	return &MatchupStore{db: db}
}

func (s *MatchupStore) Get(ctx context.Context, fixtureID string) (matchup.Batch, bool, error) {
	query := `SELECT id, fixture_public_id, created_by_team_public_id, version, pairings, created_at, updated_at
FROM matchups WHERE fixture_public_id = $1`

	var row matchupTableModel
	if err := s.db.GetContext(ctx, &row, query, fixtureID); err != nil {
		if isNotFound(err) {
			return matchup.Batch{}, false, nil
		}
		return matchup.Batch{}, false, fmt.Errorf("get matchups: %w", err)
	}

	batch, err := batchFromRow(row)
	if err != nil {
		return matchup.Batch{}, false, err
	}
	return batch, true, nil
}

func (s *MatchupStore) CreateIfAbsent(ctx context.Context, batch matchup.Batch) error {
	pairings, err := sonic.Marshal(pairingDocuments(batch.Pairings))
	if err != nil {
		return fmt.Errorf("marshal pairings: %w", err)
	}

	query := `INSERT INTO matchups (fixture_public_id, created_by_team_public_id, version, pairings, created_at)
VALUES ($1, $2, 1, $3, $4)
ON CONFLICT (fixture_public_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, batch.FixtureID, batch.CreatedBy, pairings, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("create matchups: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create matchups rows affected: %w", err)
	}
	if affected == 0 {
		return matchup.ErrAlreadyExists
	}
	return nil
}

func (s *MatchupStore) Update(ctx context.Context, batch matchup.Batch) error {
	pairings, err := sonic.Marshal(pairingDocuments(batch.Pairings))
	if err != nil {
		return fmt.Errorf("marshal pairings: %w", err)
	}

	query := `UPDATE matchups
SET pairings = $1, version = version + 1, updated_at = now()
WHERE fixture_public_id = $2 AND version = $3`

	res, err := s.db.ExecContext(ctx, query, pairings, batch.FixtureID, batch.Version)
	if err != nil {
		return fmt.Errorf("update matchups: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update matchups rows affected: %w", err)
	}
	if affected == 0 {
		return matchup.ErrVersionMismatch
	}
	return nil
}

func (s *MatchupStore) Delete(ctx context.Context, fixtureID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM matchups WHERE fixture_public_id = $1`, fixtureID); err != nil {
		return fmt.Errorf("delete matchups: %w", err)
	}
	return nil
}

func batchFromRow(row matchupTableModel) (matchup.Batch, error) {
	var docs []pairingDocument
	if len(row.Pairings) > 0 {
		if err := sonic.Unmarshal(row.Pairings, &docs); err != nil {
			return matchup.Batch{}, fmt.Errorf("unmarshal pairings: %w", err)
		}
	}

	pairings := make([]matchup.Pairing, 0, len(docs))
	for _, doc := range docs {
		p := matchup.Pairing{
			Position:        doc.Position,
			HomePlayer:      lineup.Player{ID: doc.HomePlayer.ID, Name: doc.HomePlayer.Name},
			AwayPlayer:      lineup.Player{ID: doc.AwayPlayer.ID, Name: doc.AwayPlayer.Name},
			DurationMinutes: doc.DurationMinutes,
			HomeGoals:       doc.HomeGoals,
			AwayGoals:       doc.AwayGoals,
		}
		if doc.HomeSubstitution != nil {
			p.HomeSubstitution = substitutionFromDocument(*doc.HomeSubstitution)
		}
		if doc.AwaySubstitution != nil {
			p.AwaySubstitution = substitutionFromDocument(*doc.AwaySubstitution)
		}
		pairings = append(pairings, p)
	}

	return matchup.Batch{
		FixtureID: row.FixtureID,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		Version:   row.Version,
		Pairings:  pairings,
	}, nil
}

func substitutionFromDocument(doc substitutionDocument) *matchup.Substitution {
	return &matchup.Substitution{
		OriginalPlayer: lineup.Player{ID: doc.OriginalPlayer.ID, Name: doc.OriginalPlayer.Name},
		PenaltyGoals:   doc.PenaltyGoals,
		MadeAt:         doc.MadeAt,
	}
}

func pairingDocuments(pairings []matchup.Pairing) []pairingDocument {
	docs := make([]pairingDocument, 0, len(pairings))
	for _, p := range pairings {
		doc := pairingDocument{
			Position:        p.Position,
			HomePlayer:      playerDocument{ID: p.HomePlayer.ID, Name: p.HomePlayer.Name},
			AwayPlayer:      playerDocument{ID: p.AwayPlayer.ID, Name: p.AwayPlayer.Name},
			DurationMinutes: p.DurationMinutes,
			HomeGoals:       p.HomeGoals,
			AwayGoals:       p.AwayGoals,
		}
		if p.HomeSubstitution != nil {
			doc.HomeSubstitution = &substitutionDocument{
				OriginalPlayer: playerDocument{ID: p.HomeSubstitution.OriginalPlayer.ID, Name: p.HomeSubstitution.OriginalPlayer.Name},
				PenaltyGoals:   p.HomeSubstitution.PenaltyGoals,
				MadeAt:         p.HomeSubstitution.MadeAt,
			}
		}
		if p.AwaySubstitution != nil {
			doc.AwaySubstitution = &substitutionDocument{
				OriginalPlayer: playerDocument{ID: p.AwaySubstitution.OriginalPlayer.ID, Name: p.AwaySubstitution.OriginalPlayer.Name},
				PenaltyGoals:   p.AwaySubstitution.PenaltyGoals,
				MadeAt:         p.AwaySubstitution.MadeAt,
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
