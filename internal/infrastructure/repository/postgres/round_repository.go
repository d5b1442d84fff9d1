package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

const roundSelectColumns = `id, public_id, season_public_id, round_number, leg, status, scheduled_date,
home_lineup_time, away_lineup_time, home_sub_day_offset, home_sub_time,
away_sub_day_offset, away_sub_time, result_day_offset, result_time,
created_at, updated_at`

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	query := `SELECT ` + roundSelectColumns + ` FROM rounds WHERE public_id = $1`

	var row roundTableModel
	if err := r.db.GetContext(ctx, &row, query, roundID); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return roundFromRow(row), true, nil
}

func (r *RoundRepository) ListBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	query := `SELECT ` + roundSelectColumns + ` FROM rounds WHERE season_public_id = $1 ORDER BY leg, round_number`

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list rounds by season: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}
	return out, nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	query := `INSERT INTO rounds (
    public_id, season_public_id, round_number, leg, status, scheduled_date,
    home_lineup_time, away_lineup_time, home_sub_day_offset, home_sub_time,
    away_sub_day_offset, away_sub_time, result_day_offset, result_time, updated_at
) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11, NULLIF($12, ''), $13, $14, $15)
ON CONFLICT (public_id) DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    round_number = EXCLUDED.round_number,
    leg = EXCLUDED.leg,
    status = EXCLUDED.status,
    scheduled_date = EXCLUDED.scheduled_date,
    home_lineup_time = EXCLUDED.home_lineup_time,
    away_lineup_time = EXCLUDED.away_lineup_time,
    home_sub_day_offset = EXCLUDED.home_sub_day_offset,
    home_sub_time = EXCLUDED.home_sub_time,
    away_sub_day_offset = EXCLUDED.away_sub_day_offset,
    away_sub_time = EXCLUDED.away_sub_time,
    result_day_offset = EXCLUDED.result_day_offset,
    result_time = EXCLUDED.result_time,
    updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.SeasonID,
		item.Number,
		item.Leg,
		round.NormalizeStatus(item.Status),
		item.ScheduledDate,
		item.Deadlines.HomeLineupTime,
		item.Deadlines.AwayLineupTime,
		nullableInt(item.Deadlines.HomeSubDayOffset),
		item.Deadlines.HomeSubTime,
		nullableInt(item.Deadlines.AwaySubDayOffset),
		item.Deadlines.AwaySubTime,
		item.Deadlines.ResultDayOffset,
		item.Deadlines.ResultTime,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert round: %w", err)
	}
	return nil
}

func roundFromRow(row roundTableModel) round.Round {
	item := round.Round{
		ID:            row.PublicID,
		SeasonID:      row.SeasonID,
		Number:        row.Number,
		Leg:           round.NormalizeLeg(row.Leg),
		Status:        round.NormalizeStatus(row.Status),
		ScheduledDate: row.ScheduledDate.String,
		Deadlines: round.DeadlineConfig{
			HomeLineupTime:  row.HomeLineupTime,
			AwayLineupTime:  row.AwayLineupTime,
			HomeSubTime:     row.HomeSubTime.String,
			AwaySubTime:     row.AwaySubTime.String,
			ResultDayOffset: row.ResultDayOffset,
			ResultTime:      row.ResultTime,
		},
		UpdatedAt: row.UpdatedAt,
	}
	if row.HomeSubDayOffset.Valid {
		v := int(row.HomeSubDayOffset.Int64)
		item.Deadlines.HomeSubDayOffset = &v
	}
	if row.AwaySubDayOffset.Valid {
		v := int(row.AwaySubDayOffset.Int64)
		item.Deadlines.AwaySubDayOffset = &v
	}
	return item
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
