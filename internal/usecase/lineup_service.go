package usecase

import (
	"context"
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

type SubmitLineupInput struct {
	FixtureID string
	TeamID    string
	Starters  []lineup.Player
	Reserves  []lineup.Player
}

// LineupService gates lineup submission by round phase and matchup state.
type LineupService struct {
	fixtureRepo fixture.Repository
	roundRepo   round.Repository
	lineupRepo  lineup.Repository
	matchups    matchup.Store
	settings    Settings
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewLineupService(
	fixtureRepo fixture.Repository,
	roundRepo round.Repository,
	lineupRepo lineup.Repository,
	matchups matchup.Store,
	settings Settings,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{
		fixtureRepo: fixtureRepo,
		roundRepo:   roundRepo,
		lineupRepo:  lineupRepo,
		matchups:    matchups,
		settings:    settings.normalized(),
		clock:       clockwork.NewRealClock(),
		logger:      logger,
	}
}

func (s *LineupService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Get returns a fixture lineup subject to the visibility rule: the owner
// always sees its own lineup, the opponent only once matchups exist.
func (s *LineupService) Get(ctx context.Context, fixtureID, teamID, viewerTeamID string) (lineup.Lineup, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Get")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	teamID = strings.TrimSpace(teamID)
	viewerTeamID = strings.TrimSpace(viewerTeamID)
	if fixtureID == "" || teamID == "" || viewerTeamID == "" {
		return lineup.Lineup{}, false, fmt.Errorf("%w: fixture_id, team_id and viewer team are required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	if _, ok := fx.Side(viewerTeamID); !ok {
		return lineup.Lineup{}, false, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, viewerTeamID, fixtureID)
	}

	if viewerTeamID != teamID {
		_, exists, err := s.matchups.Get(ctx, fixtureID)
		if err != nil {
			return lineup.Lineup{}, false, fmt.Errorf("check matchups before lineup read: %w", err)
		}
		if !exists {
			return lineup.Lineup{}, false, fmt.Errorf("%w: opponent lineup stays private until matchups exist", ErrNotAuthorized)
		}
	}

	item, exists, err := s.lineupRepo.Get(ctx, fixtureID, teamID)
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}
	return item, exists, nil
}

// Submit saves a team's lineup when the gate allows it. A home-team
// resubmission after matchups exist discards those matchups and returns
// the fixture to its pre-matchup state.
func (s *LineupService) Submit(ctx context.Context, input SubmitLineupInput) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Submit")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.FixtureID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	if err := s.validatePlayers(input.Starters, input.Reserves); err != nil {
		return lineup.Lineup{}, err
	}

	fx, err := s.getFixture(ctx, input.FixtureID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	home, ok := fx.Side(input.TeamID)
	if !ok {
		return lineup.Lineup{}, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, input.TeamID, input.FixtureID)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return lineup.Lineup{}, err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)

	now := s.clock.Now()
	phase := round.PhaseAt(rnd, s.settings.Location, now)

	batch, matchupsExist, err := s.matchups.Get(ctx, input.FixtureID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("check matchups before lineup submit: %w", err)
	}

	if phase != round.PhaseDraft {
		if err := canSubmitLineup(home, phase, matchupsExist); err != nil {
			sched, _, schedErr := round.ResolveSchedule(rnd, s.settings.Location)
			if schedErr == nil {
				return lineup.Lineup{}, &DeadlineError{Op: "lineup submission", Phase: phase, Deadline: lineupLockDeadline(sched, matchupsExist)}
			}
			return lineup.Lineup{}, err
		}

		if matchupsExist {
			if batch.HasResults() {
				return lineup.Lineup{}, fmt.Errorf("%w: lineup is locked by matchups with entered scores", ErrValidation)
			}
			if err := s.matchups.Delete(ctx, input.FixtureID); err != nil {
				return lineup.Lineup{}, fmt.Errorf("discard matchups on lineup resubmission: %w", err)
			}
			s.logger.InfoContext(ctx, "matchups discarded by home lineup resubmission",
				"fixture_id", input.FixtureID,
				"team_id", input.TeamID,
			)
		}
	}

	item := lineup.Lineup{
		FixtureID:   input.FixtureID,
		TeamID:      input.TeamID,
		Starters:    input.Starters,
		Reserves:    input.Reserves,
		SubmittedBy: input.TeamID,
		SubmittedAt: now.UTC(),
	}
	if err := s.lineupRepo.Upsert(ctx, item); err != nil {
		return lineup.Lineup{}, fmt.Errorf("save lineup: %w", err)
	}

	return item, nil
}

// canSubmitLineup applies the gate rules in priority order. Draft-phase
// saves bypass the gate entirely (pure storage).
func canSubmitLineup(home bool, phase round.Phase, matchupsExist bool) error {
	if matchupsExist {
		// Only the home team may reopen, and only before its own deadline.
		if home && phase == round.PhaseHomeFixture {
			return nil
		}
		return fmt.Errorf("%w: lineup is locked by existing matchups", ErrNotAuthorized)
	}

	switch phase {
	case round.PhaseHomeFixture, round.PhaseFixtureEntry:
		return nil
	default:
		return fmt.Errorf("%w: lineup submission window closed", ErrPhaseViolation)
	}
}

func lineupLockDeadline(sched round.Schedule, matchupsExist bool) time.Time {
	if matchupsExist {
		return sched.HomeLineup
	}
	return sched.AwayLineup
}

func (s *LineupService) validatePlayers(starters, reserves []lineup.Player) error {
	size := s.settings.SquadSize
	if len(starters) != size {
		return fmt.Errorf("%w: starting lineup must contain exactly %d players", ErrValidation, size)
	}

	seen := make(map[string]struct{}, len(starters)+len(reserves))
	for _, p := range starters {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: starter player id cannot be empty", ErrValidation)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: duplicate player id %s", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	for _, p := range reserves {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: reserve player id cannot be empty", ErrValidation)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: duplicate player id %s", ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func (s *LineupService) getFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return fx, nil
}
