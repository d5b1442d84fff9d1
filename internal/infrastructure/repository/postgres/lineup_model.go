package postgres

import "time"

type lineupTableModel struct {
	ID          int64     `db:"id"`
	FixtureID   string    `db:"fixture_public_id"`
	TeamID      string    `db:"team_public_id"`
	Starters    []byte    `db:"starters"`
	Reserves    []byte    `db:"reserves"`
	SubmittedBy string    `db:"submitted_by"`
	SubmittedAt time.Time `db:"submitted_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type playerDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
