package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

const (
	testSeasonID  = "season-2026"
	testRoundID   = "rnd-1"
	testFixtureID = "fx-1"
	homeTeamID    = "team-home"
	awayTeamID    = "team-away"
	otherTeamID   = "team-other"
)

var istZone = time.FixedZone("IST", 5*3600+30*60)

// The test round plays on 2026-09-05 with a home lineup deadline at 17:00,
// an away lineup deadline at 19:00 and result entry closing 2026-09-07
// 00:30, all IST.
func testActiveRound() round.Round {
	return round.Round{
		ID:            testRoundID,
		SeasonID:      testSeasonID,
		Number:        1,
		Leg:           round.LegFirst,
		Status:        round.StatusActive,
		ScheduledDate: "2026-09-05",
		Deadlines: round.DeadlineConfig{
			HomeLineupTime:  "17:00",
			AwayLineupTime:  "19:00",
			ResultDayOffset: 2,
			ResultTime:      "00:30",
		},
	}
}

func istClock(day, hour, minute int) clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2026, 9, day, hour, minute, 0, 0, istZone))
}

func homeFixtureClock() clockwork.Clock  { return istClock(5, 10, 0) }
func fixtureEntryClock() clockwork.Clock { return istClock(5, 18, 0) }
func resultEntryClock() clockwork.Clock  { return istClock(6, 12, 0) }
func closedClock() clockwork.Clock       { return istClock(8, 12, 0) }

type fixtureWorld struct {
	rounds   *memory.RoundRepository
	fixtures *memory.FixtureRepository
	lineups  *memory.LineupRepository
	matchups *memory.MatchupStore
}

func newFixtureWorld(t *testing.T) *fixtureWorld {
	t.Helper()
	w := &fixtureWorld{
		rounds:   memory.NewRoundRepository(),
		fixtures: memory.NewFixtureRepository(),
		lineups:  memory.NewLineupRepository(),
		matchups: memory.NewMatchupStore(),
	}

	if err := w.rounds.Upsert(t.Context(), testActiveRound()); err != nil {
		t.Fatalf("seed round: %v", err)
	}
	if err := w.fixtures.Upsert(t.Context(), fixture.Fixture{
		ID:           testFixtureID,
		SeasonID:     testSeasonID,
		RoundID:      testRoundID,
		MatchNumber:  1,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
		HomeTeamName: "Home FC",
		AwayTeamName: "Away FC",
		Status:       fixture.StatusScheduled,
	}); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}

	return w
}

func (w *fixtureWorld) submitLineups(t *testing.T) {
	t.Helper()
	for _, item := range []lineup.Lineup{
		testLineup(homeTeamID, "h"),
		testLineup(awayTeamID, "a"),
	} {
		if err := w.lineups.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed lineup for %s: %v", item.TeamID, err)
		}
	}
}

// testLineup builds five starters prefix-1..prefix-5 and two reserves
// prefix-6, prefix-7.
func testLineup(teamID, prefix string) lineup.Lineup {
	item := lineup.Lineup{
		FixtureID:   testFixtureID,
		TeamID:      teamID,
		SubmittedBy: teamID,
		SubmittedAt: time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC),
	}
	for i := 1; i <= 5; i++ {
		item.Starters = append(item.Starters, testPlayer(prefix, i))
	}
	for i := 6; i <= 7; i++ {
		item.Reserves = append(item.Reserves, testPlayer(prefix, i))
	}
	return item
}

func testPlayer(prefix string, n int) lineup.Player {
	return lineup.Player{
		ID:   fmt.Sprintf("%s-%d", prefix, n),
		Name: fmt.Sprintf("Player %s%d", prefix, n),
	}
}

func testAssignments() []PairingAssignment {
	assignments := make([]PairingAssignment, 0, 5)
	for i := 1; i <= 5; i++ {
		assignments = append(assignments, PairingAssignment{
			Position:     i,
			HomePlayerID: fmt.Sprintf("h-%d", i),
			AwayPlayerID: fmt.Sprintf("a-%d", i),
		})
	}
	return assignments
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}
