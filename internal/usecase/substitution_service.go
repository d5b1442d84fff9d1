package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type ApplySubstitutionInput struct {
	FixtureID    string
	TeamID       string
	Position     int
	NewPlayerID  string
	PenaltyGoals int
}

// SubstitutionService replaces a paired player with a reserve after the
// lineup deadlines, charging the configured penalty goals to the opposing
// side's total. A pairing records at most one substitution per side; the
// original starter is kept from the first replacement so repeated swaps do
// not lose the entry lineup.
type SubstitutionService struct {
	fixtureRepo fixture.Repository
	roundRepo   round.Repository
	lineupRepo  lineup.Repository
	matchups    matchup.Store
	settings    Settings
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewSubstitutionService(
	fixtureRepo fixture.Repository,
	roundRepo round.Repository,
	lineupRepo lineup.Repository,
	matchups matchup.Store,
	settings Settings,
	logger *logging.Logger,
) *SubstitutionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubstitutionService{
		fixtureRepo: fixtureRepo,
		roundRepo:   roundRepo,
		lineupRepo:  lineupRepo,
		matchups:    matchups,
		settings:    settings.normalized(),
		clock:       clockwork.NewRealClock(),
		logger:      logger,
	}
}

func (s *SubstitutionService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Apply substitutes the new player into the pairing on the caller's side.
func (s *SubstitutionService) Apply(ctx context.Context, input ApplySubstitutionInput) (matchup.Batch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubstitutionService.Apply")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.NewPlayerID = strings.TrimSpace(input.NewPlayerID)
	if input.FixtureID == "" || input.TeamID == "" || input.NewPlayerID == "" {
		return matchup.Batch{}, fmt.Errorf("%w: fixture_id, team_id and player_id are required", ErrInvalidInput)
	}
	if input.PenaltyGoals < 0 {
		return matchup.Batch{}, fmt.Errorf("%w: penalty goals must not be negative", ErrValidation)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return matchup.Batch{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return matchup.Batch{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, input.FixtureID)
	}
	home, ok := fx.Side(input.TeamID)
	if !ok {
		return matchup.Batch{}, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, input.TeamID, input.FixtureID)
	}
	if fx.IsCompleted() {
		return matchup.Batch{}, fmt.Errorf("%w: fixture %s already has a final result", ErrValidation, input.FixtureID)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return matchup.Batch{}, err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)

	now := s.clock.Now()
	sched, scheduled, err := round.ResolveSchedule(rnd, s.settings.Location)
	if err != nil {
		return matchup.Batch{}, fmt.Errorf("resolve round schedule: %w", err)
	}
	if !scheduled || !round.IsActiveStatus(rnd.Status) {
		return matchup.Batch{}, &DeadlineError{Op: "substitution", Phase: round.PhaseDraft}
	}
	deadline := sched.SubstitutionDeadline(home)
	if !now.Before(deadline) {
		return matchup.Batch{}, &DeadlineError{
			Op:       "substitution",
			Phase:    round.PhaseAt(rnd, s.settings.Location, now),
			Deadline: deadline,
		}
	}

	batch, exists, err := s.matchups.Get(ctx, input.FixtureID)
	if err != nil {
		return matchup.Batch{}, fmt.Errorf("get matchups: %w", err)
	}
	if !exists {
		return matchup.Batch{}, fmt.Errorf("%w: matchups for fixture %s", ErrNotFound, input.FixtureID)
	}

	idx := -1
	for i, p := range batch.Pairings {
		if p.Position == input.Position {
			idx = i
			break
		}
	}
	if idx < 0 {
		return matchup.Batch{}, fmt.Errorf("%w: no pairing at position %d", ErrValidation, input.Position)
	}

	teamLineup, exists, err := s.lineupRepo.Get(ctx, input.FixtureID, input.TeamID)
	if err != nil {
		return matchup.Batch{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return matchup.Batch{}, fmt.Errorf("%w: team %s has not submitted a lineup", ErrValidation, input.TeamID)
	}
	newPlayer, ok := teamLineup.Find(input.NewPlayerID)
	if !ok {
		return matchup.Batch{}, fmt.Errorf("%w: player %s is not in the team lineup", ErrValidation, input.NewPlayerID)
	}
	if batch.HasPlayerOnSide(newPlayer.ID, home, input.Position) {
		return matchup.Batch{}, fmt.Errorf("%w: player %s is already assigned on this side", ErrValidation, newPlayer.ID)
	}

	pairing := &batch.Pairings[idx]
	if home {
		if pairing.HomePlayer.ID == newPlayer.ID {
			return matchup.Batch{}, fmt.Errorf("%w: player %s already occupies position %d", ErrValidation, newPlayer.ID, input.Position)
		}
		sub := substitutionFor(pairing.HomeSubstitution, pairing.HomePlayer, input.PenaltyGoals, now)
		pairing.HomeSubstitution = &sub
		pairing.HomePlayer = newPlayer
	} else {
		if pairing.AwayPlayer.ID == newPlayer.ID {
			return matchup.Batch{}, fmt.Errorf("%w: player %s already occupies position %d", ErrValidation, newPlayer.ID, input.Position)
		}
		sub := substitutionFor(pairing.AwaySubstitution, pairing.AwayPlayer, input.PenaltyGoals, now)
		pairing.AwaySubstitution = &sub
		pairing.AwayPlayer = newPlayer
	}

	if err := s.matchups.Update(ctx, batch); err != nil {
		if errors.Is(err, matchup.ErrVersionMismatch) {
			return matchup.Batch{}, &ConflictError{FixtureID: input.FixtureID}
		}
		return matchup.Batch{}, fmt.Errorf("update matchups: %w", err)
	}

	s.logger.InfoContext(ctx, "substitution applied",
		"fixture_id", input.FixtureID,
		"team_id", input.TeamID,
		"position", input.Position,
		"player_id", newPlayer.ID,
		"penalty_goals", input.PenaltyGoals,
	)

	return batch, nil
}

// substitutionFor keeps the starter from the first replacement so that a
// second substitution on the same pairing still points at the player who
// began the fixture.
func substitutionFor(prev *matchup.Substitution, current lineup.Player, penalty int, now time.Time) matchup.Substitution {
	original := current
	if prev != nil {
		original = prev.OriginalPlayer
	}
	return matchup.Substitution{
		OriginalPlayer: original,
		PenaltyGoals:   penalty,
		MadeAt:         now.UTC(),
	}
}
