package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/result"
)

type captureSink struct {
	events []result.FixtureResult
}

func (s *captureSink) Publish(_ context.Context, event result.FixtureResult) error {
	s.events = append(s.events, event)
	return nil
}

type failingSink struct{}

func (failingSink) Publish(context.Context, result.FixtureResult) error {
	return errors.New("sink unavailable")
}

func newResultService(w *fixtureWorld, sinks ...result.EventSink) *ResultService {
	return NewResultService(w.fixtures, w.rounds, w.matchups, sinks, staticIDGenerator{id: "evt-1"}, DefaultSettings(), testLogger())
}

func testScores(perPosition func(position int) (home, away int)) []PairingScore {
	scores := make([]PairingScore, 0, 5)
	for pos := 1; pos <= 5; pos++ {
		h, a := perPosition(pos)
		scores = append(scores, PairingScore{Position: pos, HomeGoals: h, AwayGoals: a})
	}
	return scores
}

func TestResultService_Enter_FinalizesFixture(t *testing.T) {
	w := pairedFixtureWorld(t)
	sink := &captureSink{}
	service := newResultService(w, sink)
	service.SetClock(resultEntryClock())

	fx, err := service.Enter(t.Context(), EnterResultInput{
		FixtureID: testFixtureID,
		TeamID:    homeTeamID,
		Scores: testScores(func(pos int) (int, int) {
			if pos == 1 {
				return 2, 0
			}
			return 1, 1
		}),
		MOTMPlayerID:  "h-1",
		HomeFineGoals: 1,
		AwayFineGoals: 0,
	})
	if err != nil {
		t.Fatalf("enter result: %v", err)
	}

	if fx.Status != fixture.StatusCompleted {
		t.Fatalf("expected completed fixture, got %s", fx.Status)
	}
	if fx.HomeScore == nil || *fx.HomeScore != 7 {
		t.Fatalf("expected home total 7, got %v", fx.HomeScore)
	}
	if fx.AwayScore == nil || *fx.AwayScore != 4 {
		t.Fatalf("expected away total 4, got %v", fx.AwayScore)
	}
	if fx.Outcome != fixture.OutcomeHomeWin {
		t.Fatalf("expected home win, got %s", fx.Outcome)
	}
	if fx.MOTMPlayerID != "h-1" || fx.MOTMPlayerName == "" {
		t.Fatalf("expected resolved man of the match, got id=%s name=%q", fx.MOTMPlayerID, fx.MOTMPlayerName)
	}
	if fx.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(sink.events))
	}
	event := sink.events[0]
	if event.EventID != "evt-1" {
		t.Fatalf("unexpected event id %s", event.EventID)
	}
	if event.Home.Total != 7 || event.Away.Total != 4 {
		t.Fatalf("event totals mismatch: %d vs %d", event.Home.Total, event.Away.Total)
	}
	if event.Home.FineGoals != 1 || event.Away.FineGoals != 0 {
		t.Fatalf("event fine goals mismatch: %d vs %d", event.Home.FineGoals, event.Away.FineGoals)
	}
	if len(event.Pairings) != 5 {
		t.Fatalf("expected 5 pairing lines, got %d", len(event.Pairings))
	}
}

func TestResultService_Enter_PenaltiesCreditOpponent(t *testing.T) {
	w := pairedFixtureWorld(t)
	subSvc := newSubstitutionService(w)
	subSvc.SetClock(resultEntryClock())
	if _, err := subSvc.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:    testFixtureID,
		TeamID:       awayTeamID,
		Position:     3,
		NewPlayerID:  "a-6",
		PenaltyGoals: 2,
	}); err != nil {
		t.Fatalf("apply substitution: %v", err)
	}

	sink := &captureSink{}
	service := newResultService(w, sink)
	service.SetClock(resultEntryClock())

	fx, err := service.Enter(t.Context(), EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       awayTeamID,
		Scores:       testScores(func(int) (int, int) { return 0, 1 }),
		MOTMPlayerID: "a-6",
	})
	if err != nil {
		t.Fatalf("enter result: %v", err)
	}

	if *fx.HomeScore != 2 {
		t.Fatalf("away penalty must credit home, got home total %d", *fx.HomeScore)
	}
	if *fx.AwayScore != 5 {
		t.Fatalf("expected away total 5, got %d", *fx.AwayScore)
	}
	if fx.Outcome != fixture.OutcomeAwayWin {
		t.Fatalf("expected away win, got %s", fx.Outcome)
	}
	if len(sink.events[0].Substitutions) != 1 {
		t.Fatalf("expected substitution record in event, got %d", len(sink.events[0].Substitutions))
	}
}

func TestResultService_Enter_MOTMMustHaveParticipated(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newResultService(w)
	service.SetClock(resultEntryClock())

	input := EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 0, 0 }),
		MOTMPlayerID: "h-7",
	}
	if _, err := service.Enter(t.Context(), input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bench player, got %v", err)
	}
}

func TestResultService_Enter_MOTMIsPostSubstitutionIdentity(t *testing.T) {
	w := pairedFixtureWorld(t)
	subSvc := newSubstitutionService(w)
	subSvc.SetClock(resultEntryClock())
	if _, err := subSvc.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      homeTeamID,
		Position:    1,
		NewPlayerID: "h-6",
	}); err != nil {
		t.Fatalf("apply substitution: %v", err)
	}

	service := newResultService(w)
	service.SetClock(resultEntryClock())

	// The starter who was substituted off no longer plays the fixture.
	_, err := service.Enter(t.Context(), EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 0, 0 }),
		MOTMPlayerID: "h-1",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for substituted-off starter, got %v", err)
	}

	// The replacement who finished on the pitch is eligible.
	fx, err := service.Enter(t.Context(), EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 0, 0 }),
		MOTMPlayerID: "h-6",
	})
	if err != nil {
		t.Fatalf("enter result with substituted-in player: %v", err)
	}
	if fx.MOTMPlayerID != "h-6" {
		t.Fatalf("expected MOTM h-6, got %s", fx.MOTMPlayerID)
	}
	if fx.Outcome != fixture.OutcomeDraw {
		t.Fatalf("expected draw, got %s", fx.Outcome)
	}
}

func TestResultService_Enter_OutsideWindowRejected(t *testing.T) {
	cases := []struct {
		name  string
		clock clockwork.Clock
	}{
		{"before the window", fixtureEntryClock()},
		{"after the window", closedClock()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := pairedFixtureWorld(t)
			service := newResultService(w)
			service.SetClock(tc.clock)

			_, err := service.Enter(t.Context(), EnterResultInput{
				FixtureID:    testFixtureID,
				TeamID:       homeTeamID,
				Scores:       testScores(func(int) (int, int) { return 0, 0 }),
				MOTMPlayerID: "h-1",
			})
			if !errors.Is(err, ErrPhaseViolation) {
				t.Fatalf("expected ErrPhaseViolation, got %v", err)
			}
			var deadlineErr *DeadlineError
			if !errors.As(err, &deadlineErr) || deadlineErr.Deadline.IsZero() {
				t.Fatalf("expected DeadlineError with the window close, got %v", err)
			}
		})
	}
}

func TestResultService_Enter_ScoreValidation(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newResultService(w)
	service.SetClock(resultEntryClock())

	base := EnterResultInput{FixtureID: testFixtureID, TeamID: homeTeamID, MOTMPlayerID: "h-1"}

	t.Run("missing pairing score", func(t *testing.T) {
		input := base
		input.Scores = testScores(func(int) (int, int) { return 0, 0 })[:4]
		if _, err := service.Enter(t.Context(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("duplicate position", func(t *testing.T) {
		input := base
		input.Scores = testScores(func(int) (int, int) { return 0, 0 })
		input.Scores[4].Position = 1
		if _, err := service.Enter(t.Context(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("negative goals", func(t *testing.T) {
		input := base
		input.Scores = testScores(func(pos int) (int, int) {
			if pos == 2 {
				return -1, 0
			}
			return 0, 0
		})
		if _, err := service.Enter(t.Context(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		input := base
		input.Scores = testScores(func(int) (int, int) { return 0, 0 })
		input.Scores[4].Position = 9
		if _, err := service.Enter(t.Context(), input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestResultService_Enter_ReentryOverwrites(t *testing.T) {
	w := pairedFixtureWorld(t)
	sink := &captureSink{}
	service := newResultService(w, sink)
	service.SetClock(resultEntryClock())

	input := EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 1, 0 }),
		MOTMPlayerID: "h-1",
	}
	if _, err := service.Enter(t.Context(), input); err != nil {
		t.Fatalf("first entry: %v", err)
	}

	input.Scores = testScores(func(int) (int, int) { return 0, 2 })
	input.MOTMPlayerID = "a-3"
	fx, err := service.Enter(t.Context(), input)
	if err != nil {
		t.Fatalf("re-entry: %v", err)
	}

	if *fx.HomeScore != 0 || *fx.AwayScore != 10 {
		t.Fatalf("expected overwritten totals 0 and 10, got %d and %d", *fx.HomeScore, *fx.AwayScore)
	}
	if fx.MOTMPlayerID != "a-3" {
		t.Fatalf("expected overwritten man of the match, got %s", fx.MOTMPlayerID)
	}
	if len(sink.events) != 2 {
		t.Fatalf("expected an event per entry, got %d", len(sink.events))
	}
}

func TestResultService_Enter_SinkFailureDoesNotRollBack(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newResultService(w, failingSink{})
	service.SetClock(resultEntryClock())

	fx, err := service.Enter(t.Context(), EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 0, 0 }),
		MOTMPlayerID: "h-1",
	})
	if err != nil {
		t.Fatalf("sink failure must not fail result entry: %v", err)
	}
	if fx.Status != fixture.StatusCompleted {
		t.Fatalf("expected completed fixture, got %s", fx.Status)
	}
}
