package memory

import (
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

const (
	SeasonID2026 = "matchday-2026"

	RoundIDOpening = "rnd-2026-first-01"

	FixtureIDOpening1 = "fx-2026-first-01-001"
	FixtureIDOpening2 = "fx-2026-first-01-002"

	TeamIDThunder  = "team-thunder"
	TeamIDHarbour  = "team-harbour"
	TeamIDIronwood = "team-ironwood"
	TeamIDCrest    = "team-crest"
)

// SeedRounds returns the demo rounds loaded in database-less mode.
func SeedRounds() []round.Round {
	return []round.Round{
		{
			ID:            RoundIDOpening,
			SeasonID:      SeasonID2026,
			Number:        1,
			Leg:           round.LegFirst,
			Status:        round.StatusActive,
			ScheduledDate: "2026-09-05",
			Deadlines: round.DeadlineConfig{
				HomeLineupTime:  "17:00",
				AwayLineupTime:  "17:00",
				ResultDayOffset: 2,
				ResultTime:      "00:30",
			},
			UpdatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:            "rnd-2026-first-02",
			SeasonID:      SeasonID2026,
			Number:        2,
			Leg:           round.LegFirst,
			Status:        round.StatusScheduled,
			ScheduledDate: "2026-09-12",
			Deadlines: round.DeadlineConfig{
				HomeLineupTime:  "17:00",
				AwayLineupTime:  "17:00",
				ResultDayOffset: 2,
				ResultTime:      "00:30",
			},
			UpdatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}
}

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:           FixtureIDOpening1,
			SeasonID:     SeasonID2026,
			RoundID:      RoundIDOpening,
			MatchNumber:  1,
			HomeTeamID:   TeamIDThunder,
			AwayTeamID:   TeamIDHarbour,
			HomeTeamName: "Thunder FC",
			AwayTeamName: "Harbour City",
			Status:       fixture.StatusScheduled,
			UpdatedAt:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           FixtureIDOpening2,
			SeasonID:     SeasonID2026,
			RoundID:      RoundIDOpening,
			MatchNumber:  2,
			HomeTeamID:   TeamIDIronwood,
			AwayTeamID:   TeamIDCrest,
			HomeTeamName: "Ironwood United",
			AwayTeamName: "Crest Rovers",
			Status:       fixture.StatusScheduled,
			UpdatedAt:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}
}
