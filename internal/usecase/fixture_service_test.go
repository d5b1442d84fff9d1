package usecase

import (
	"errors"
	"testing"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

func newFixtureService(w *fixtureWorld, generatedID string) *FixtureService {
	service := NewFixtureService(w.fixtures, w.rounds, staticIDGenerator{id: generatedID}, testLogger())
	service.SetClock(homeFixtureClock())
	return service
}

// scheduledFixtureWorld downgrades the seeded round so fixtures can still
// be added to it.
func scheduledFixtureWorld(t *testing.T) *fixtureWorld {
	t.Helper()
	w := newFixtureWorld(t)
	rnd := testActiveRound()
	rnd.Status = round.StatusScheduled
	if err := w.rounds.Upsert(t.Context(), rnd); err != nil {
		t.Fatalf("reseed round: %v", err)
	}
	return w
}

func TestFixtureService_Create(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	fx, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:     testSeasonID,
		RoundID:      testRoundID,
		MatchNumber:  2,
		HomeTeamID:   "team-c",
		HomeTeamName: "Club C",
		AwayTeamID:   "team-d",
		AwayTeamName: "Club D",
	})
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	if fx.ID != "fx-2" {
		t.Fatalf("expected generated id, got %s", fx.ID)
	}
	if fx.Status != fixture.StatusScheduled {
		t.Fatalf("new fixture must start scheduled, got %s", fx.Status)
	}

	stored, err := service.Get(t.Context(), "fx-2")
	if err != nil {
		t.Fatalf("read back fixture: %v", err)
	}
	if stored.HomeTeamName != "Club C" || stored.AwayTeamName != "Club D" {
		t.Fatalf("unexpected team names: %q vs %q", stored.HomeTeamName, stored.AwayTeamName)
	}
}

func TestFixtureService_Create_RejectsLiveRound(t *testing.T) {
	w := newFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	_, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    testSeasonID,
		RoundID:     testRoundID,
		MatchNumber: 2,
		HomeTeamID:  "team-c",
		AwayTeamID:  "team-d",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for live round, got %v", err)
	}
}

func TestFixtureService_Create_RejectsWrongSeason(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	_, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    "season-2027",
		RoundID:     testRoundID,
		MatchNumber: 2,
		HomeTeamID:  "team-c",
		AwayTeamID:  "team-d",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFixtureService_Create_RejectsTakenMatchNumber(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	_, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    testSeasonID,
		RoundID:     testRoundID,
		MatchNumber: 1,
		HomeTeamID:  "team-c",
		AwayTeamID:  "team-d",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFixtureService_Create_RejectsTeamAlreadyPlaying(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	_, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    testSeasonID,
		RoundID:     testRoundID,
		MatchNumber: 2,
		HomeTeamID:  homeTeamID,
		AwayTeamID:  "team-d",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFixtureService_Create_RejectsSelfPlay(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	_, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    testSeasonID,
		RoundID:     testRoundID,
		MatchNumber: 2,
		HomeTeamID:  "team-c",
		AwayTeamID:  "team-c",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFixtureService_ListByRound(t *testing.T) {
	w := scheduledFixtureWorld(t)
	service := newFixtureService(w, "fx-2")

	if _, err := service.Create(t.Context(), CreateFixtureInput{
		SeasonID:    testSeasonID,
		RoundID:     testRoundID,
		MatchNumber: 2,
		HomeTeamID:  "team-c",
		AwayTeamID:  "team-d",
	}); err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	fixtures, err := service.ListByRound(t.Context(), testRoundID)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(fixtures))
	}
}

func TestFixtureService_Get_UnknownFixture(t *testing.T) {
	w := newFixtureWorld(t)
	service := newFixtureService(w, "unused")

	if _, err := service.Get(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
