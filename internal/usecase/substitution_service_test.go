package usecase

import (
	"errors"
	"testing"
)

func newSubstitutionService(w *fixtureWorld) *SubstitutionService {
	return NewSubstitutionService(w.fixtures, w.rounds, w.lineups, w.matchups, DefaultSettings(), testLogger())
}

// pairedFixtureWorld seeds lineups and a matchup batch so substitutions
// have something to act on.
func pairedFixtureWorld(t *testing.T) *fixtureWorld {
	t.Helper()
	w := newFixtureWorld(t)
	w.submitLineups(t)

	matchupSvc := newMatchupService(w)
	matchupSvc.SetClock(homeFixtureClock())
	if _, err := matchupSvc.Create(t.Context(), CreateMatchupsInput{
		FixtureID:   testFixtureID,
		TeamID:      homeTeamID,
		Assignments: testAssignments(),
	}); err != nil {
		t.Fatalf("create matchups: %v", err)
	}
	return w
}

func TestSubstitutionService_Apply_ReservesInWithPenalty(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	batch, err := service.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Position:     1,
		NewPlayerID:  "h-6",
		PenaltyGoals: 1,
	})
	if err != nil {
		t.Fatalf("apply substitution: %v", err)
	}

	pairing := batch.Pairings[0]
	if pairing.HomePlayer.ID != "h-6" {
		t.Fatalf("expected h-6 at position 1, got %s", pairing.HomePlayer.ID)
	}
	if pairing.HomeSubstitution == nil {
		t.Fatal("expected home substitution record")
	}
	if pairing.HomeSubstitution.OriginalPlayer.ID != "h-1" {
		t.Fatalf("expected original player h-1, got %s", pairing.HomeSubstitution.OriginalPlayer.ID)
	}
	if pairing.HomeSubstitution.PenaltyGoals != 1 {
		t.Fatalf("expected penalty 1, got %d", pairing.HomeSubstitution.PenaltyGoals)
	}
	if pairing.AwaySubstitution != nil {
		t.Fatal("away side must be untouched")
	}
}

func TestSubstitutionService_Apply_SecondSwapKeepsOriginalStarter(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	input := ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      awayTeamID,
		Position:    2,
		NewPlayerID: "a-6",
	}
	if _, err := service.Apply(t.Context(), input); err != nil {
		t.Fatalf("first substitution: %v", err)
	}

	input.NewPlayerID = "a-7"
	input.PenaltyGoals = 2
	batch, err := service.Apply(t.Context(), input)
	if err != nil {
		t.Fatalf("second substitution: %v", err)
	}

	pairing := batch.Pairings[1]
	if pairing.AwayPlayer.ID != "a-7" {
		t.Fatalf("expected a-7 at position 2, got %s", pairing.AwayPlayer.ID)
	}
	if pairing.AwaySubstitution.OriginalPlayer.ID != "a-2" {
		t.Fatalf("second swap must keep the starter, got %s", pairing.AwaySubstitution.OriginalPlayer.ID)
	}
	if pairing.AwaySubstitution.PenaltyGoals != 2 {
		t.Fatalf("expected latest penalty 2, got %d", pairing.AwaySubstitution.PenaltyGoals)
	}
}

func TestSubstitutionService_Apply_AfterDeadlineRejected(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newSubstitutionService(w)
	service.SetClock(closedClock())

	_, err := service.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      homeTeamID,
		Position:    1,
		NewPlayerID: "h-6",
	})
	if !errors.Is(err, ErrPhaseViolation) {
		t.Fatalf("expected ErrPhaseViolation, got %v", err)
	}
	var deadlineErr *DeadlineError
	if !errors.As(err, &deadlineErr) || deadlineErr.Deadline.IsZero() {
		t.Fatalf("expected DeadlineError with deadline, got %v", err)
	}
}

func TestSubstitutionService_Apply_NonParticipantRejected(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	_, err := service.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      otherTeamID,
		Position:    1,
		NewPlayerID: "h-6",
	})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestSubstitutionService_Apply_ValidationFailures(t *testing.T) {
	w := pairedFixtureWorld(t)
	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	cases := []struct {
		name  string
		input ApplySubstitutionInput
		want  error
	}{
		{
			name: "player outside the team lineup",
			input: ApplySubstitutionInput{
				FixtureID: testFixtureID, TeamID: homeTeamID, Position: 1, NewPlayerID: "stranger",
			},
			want: ErrValidation,
		},
		{
			name: "player already assigned on the side",
			input: ApplySubstitutionInput{
				FixtureID: testFixtureID, TeamID: homeTeamID, Position: 1, NewPlayerID: "h-2",
			},
			want: ErrValidation,
		},
		{
			name: "player already occupies the position",
			input: ApplySubstitutionInput{
				FixtureID: testFixtureID, TeamID: homeTeamID, Position: 1, NewPlayerID: "h-1",
			},
			want: ErrValidation,
		},
		{
			name: "unknown pairing position",
			input: ApplySubstitutionInput{
				FixtureID: testFixtureID, TeamID: homeTeamID, Position: 9, NewPlayerID: "h-6",
			},
			want: ErrValidation,
		},
		{
			name: "negative penalty",
			input: ApplySubstitutionInput{
				FixtureID: testFixtureID, TeamID: homeTeamID, Position: 1, NewPlayerID: "h-6", PenaltyGoals: -1,
			},
			want: ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Apply(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubstitutionService_Apply_CompletedFixtureRejected(t *testing.T) {
	w := pairedFixtureWorld(t)
	resultSvc := newResultService(w)
	resultSvc.SetClock(resultEntryClock())
	if _, err := resultSvc.Enter(t.Context(), EnterResultInput{
		FixtureID:    testFixtureID,
		TeamID:       homeTeamID,
		Scores:       testScores(func(int) (int, int) { return 1, 0 }),
		MOTMPlayerID: "h-1",
	}); err != nil {
		t.Fatalf("enter result: %v", err)
	}

	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	// The substitution window may still be open, but the final result has
	// been entered and its totals would no longer match the pairings.
	_, err := service.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      homeTeamID,
		Position:    1,
		NewPlayerID: "h-6",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for completed fixture, got %v", err)
	}
}

func TestSubstitutionService_Apply_RequiresMatchups(t *testing.T) {
	w := newFixtureWorld(t)
	w.submitLineups(t)
	service := newSubstitutionService(w)
	service.SetClock(resultEntryClock())

	_, err := service.Apply(t.Context(), ApplySubstitutionInput{
		FixtureID:   testFixtureID,
		TeamID:      homeTeamID,
		Position:    1,
		NewPlayerID: "h-6",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
