package postgres

import (
	"database/sql"
	"time"
)

type roundTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	SeasonID         string         `db:"season_public_id"`
	Number           int            `db:"round_number"`
	Leg              string         `db:"leg"`
	Status           string         `db:"status"`
	ScheduledDate    sql.NullString `db:"scheduled_date"`
	HomeLineupTime   string         `db:"home_lineup_time"`
	AwayLineupTime   string         `db:"away_lineup_time"`
	HomeSubDayOffset sql.NullInt64  `db:"home_sub_day_offset"`
	HomeSubTime      sql.NullString `db:"home_sub_time"`
	AwaySubDayOffset sql.NullInt64  `db:"away_sub_day_offset"`
	AwaySubTime      sql.NullString `db:"away_sub_time"`
	ResultDayOffset  int            `db:"result_day_offset"`
	ResultTime       string         `db:"result_time"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
