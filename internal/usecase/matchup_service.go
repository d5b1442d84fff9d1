package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type PairingAssignment struct {
	Position        int
	HomePlayerID    string
	AwayPlayerID    string
	DurationMinutes int
}

type CreateMatchupsInput struct {
	FixtureID   string
	TeamID      string
	Assignments []PairingAssignment
}

type PairingChange struct {
	Position        int
	AwayPlayerID    string // empty keeps the current assignment
	DurationMinutes int    // zero keeps the current duration
}

type EditMatchupsInput struct {
	FixtureID string
	TeamID    string
	Changes   []PairingChange
}

type SwapMatchupsInput struct {
	FixtureID string
	TeamID    string
	PositionA int
	PositionB int
}

// MatchupService creates and edits pairing batches under the
// first-writer-wins protocol. Creation is an atomic create-if-absent at the
// store boundary; every later mutation is a compare-and-swap on the batch
// version.
type MatchupService struct {
	fixtureRepo fixture.Repository
	roundRepo   round.Repository
	lineupRepo  lineup.Repository
	matchups    matchup.Store
	settings    Settings
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewMatchupService(
	fixtureRepo fixture.Repository,
	roundRepo round.Repository,
	lineupRepo lineup.Repository,
	matchups matchup.Store,
	settings Settings,
	logger *logging.Logger,
) *MatchupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchupService{
		fixtureRepo: fixtureRepo,
		roundRepo:   roundRepo,
		lineupRepo:  lineupRepo,
		matchups:    matchups,
		settings:    settings.normalized(),
		clock:       clockwork.NewRealClock(),
		logger:      logger,
	}
}

func (s *MatchupService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Get returns the fixture's pairing batch.
func (s *MatchupService) Get(ctx context.Context, fixtureID string) (matchup.Batch, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Get")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return matchup.Batch{}, false, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	batch, exists, err := s.matchups.Get(ctx, fixtureID)
	if err != nil {
		return matchup.Batch{}, false, fmt.Errorf("get matchups: %w", err)
	}
	return batch, exists, nil
}

// Create persists the full pairing set in one atomic batch. Exactly one
// creation ever succeeds per fixture; a lost race surfaces as ConflictError
// so the losing client discards its draft and reloads the winner's batch.
func (s *MatchupService) Create(ctx context.Context, input CreateMatchupsInput) (matchup.Batch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Create")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.FixtureID == "" || input.TeamID == "" {
		return matchup.Batch{}, fmt.Errorf("%w: fixture_id and team_id are required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, input.FixtureID)
	if err != nil {
		return matchup.Batch{}, err
	}
	home, ok := fx.Side(input.TeamID)
	if !ok {
		return matchup.Batch{}, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, input.TeamID, input.FixtureID)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return matchup.Batch{}, err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)

	now := s.clock.Now()
	phase := round.PhaseAt(rnd, s.settings.Location, now)
	if !round.IsActiveStatus(rnd.Status) || phase == round.PhaseDraft {
		return matchup.Batch{}, &DeadlineError{Op: "matchup creation", Phase: round.PhaseDraft}
	}

	switch phase {
	case round.PhaseHomeFixture:
		if !home {
			return matchup.Batch{}, fmt.Errorf("%w: only the home team may create matchups before the home deadline", ErrNotAuthorized)
		}
	case round.PhaseFixtureEntry:
		// Either team may act; the store arbitrates the race.
	default:
		sched, _, schedErr := round.ResolveSchedule(rnd, s.settings.Location)
		if schedErr != nil {
			return matchup.Batch{}, fmt.Errorf("resolve round schedule: %w", schedErr)
		}
		return matchup.Batch{}, &DeadlineError{Op: "matchup creation", Phase: phase, Deadline: sched.AwayLineup}
	}

	homeLineup, awayLineup, err := s.bothLineups(ctx, fx)
	if err != nil {
		return matchup.Batch{}, err
	}

	pairings, err := s.buildPairings(input.Assignments, homeLineup, awayLineup)
	if err != nil {
		return matchup.Batch{}, err
	}

	batch := matchup.Batch{
		FixtureID: input.FixtureID,
		CreatedBy: input.TeamID,
		CreatedAt: now.UTC(),
		Version:   1,
		Pairings:  pairings,
	}
	if err := batch.Validate(s.settings.SquadSize); err != nil {
		return matchup.Batch{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.matchups.CreateIfAbsent(ctx, batch); err != nil {
		if errors.Is(err, matchup.ErrAlreadyExists) {
			winner, _, readErr := s.matchups.Get(ctx, input.FixtureID)
			if readErr != nil {
				s.logger.WarnContext(ctx, "read winning batch after lost creation race failed",
					"fixture_id", input.FixtureID, "error", readErr)
			}
			return matchup.Batch{}, &ConflictError{FixtureID: input.FixtureID, CreatedBy: winner.CreatedBy}
		}
		return matchup.Batch{}, fmt.Errorf("create matchups: %w", err)
	}

	s.logger.InfoContext(ctx, "matchups created",
		"fixture_id", input.FixtureID,
		"created_by", input.TeamID,
		"pairings", len(pairings),
	)

	return batch, nil
}

// Edit reassigns away players or durations on existing pairings, restricted
// to whoever currently holds edit rights.
func (s *MatchupService) Edit(ctx context.Context, input EditMatchupsInput) (matchup.Batch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Edit")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.FixtureID == "" || input.TeamID == "" {
		return matchup.Batch{}, fmt.Errorf("%w: fixture_id and team_id are required", ErrInvalidInput)
	}
	if len(input.Changes) == 0 {
		return matchup.Batch{}, fmt.Errorf("%w: no pairing changes supplied", ErrInvalidInput)
	}

	fx, batch, err := s.editableBatch(ctx, input.FixtureID, input.TeamID)
	if err != nil {
		return matchup.Batch{}, err
	}

	_, awayLineup, err := s.bothLineups(ctx, fx)
	if err != nil {
		return matchup.Batch{}, err
	}

	for _, change := range input.Changes {
		idx := pairingIndex(batch, change.Position)
		if idx < 0 {
			return matchup.Batch{}, fmt.Errorf("%w: no pairing at position %d", ErrValidation, change.Position)
		}
		if playerID := strings.TrimSpace(change.AwayPlayerID); playerID != "" {
			player, ok := awayLineup.Starter(playerID)
			if !ok {
				return matchup.Batch{}, fmt.Errorf("%w: player %s is not an away starter", ErrValidation, playerID)
			}
			batch.Pairings[idx].AwayPlayer = player
		}
		if change.DurationMinutes > 0 {
			batch.Pairings[idx].DurationMinutes = change.DurationMinutes
		}
	}

	if err := batch.Validate(s.settings.SquadSize); err != nil {
		return matchup.Batch{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.commit(ctx, batch); err != nil {
		return matchup.Batch{}, err
	}
	return batch, nil
}

// Swap exchanges the away-player assignment between two pairings
// atomically: either both pairings update or neither does.
func (s *MatchupService) Swap(ctx context.Context, input SwapMatchupsInput) (matchup.Batch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Swap")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.FixtureID == "" || input.TeamID == "" {
		return matchup.Batch{}, fmt.Errorf("%w: fixture_id and team_id are required", ErrInvalidInput)
	}
	if input.PositionA == input.PositionB {
		return matchup.Batch{}, fmt.Errorf("%w: swap positions must differ", ErrInvalidInput)
	}

	_, batch, err := s.editableBatch(ctx, input.FixtureID, input.TeamID)
	if err != nil {
		return matchup.Batch{}, err
	}

	idxA := pairingIndex(batch, input.PositionA)
	idxB := pairingIndex(batch, input.PositionB)
	if idxA < 0 || idxB < 0 {
		return matchup.Batch{}, fmt.Errorf("%w: both swap positions must exist", ErrValidation)
	}

	batch.Pairings[idxA].AwayPlayer, batch.Pairings[idxB].AwayPlayer =
		batch.Pairings[idxB].AwayPlayer, batch.Pairings[idxA].AwayPlayer

	if err := batch.Validate(s.settings.SquadSize); err != nil {
		return matchup.Batch{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.commit(ctx, batch); err != nil {
		return matchup.Batch{}, err
	}
	return batch, nil
}

// Reset discards the fixture's matchups, returning it to the pre-matchup
// state. Only the home team may do this, and only before its own deadline.
func (s *MatchupService) Reset(ctx context.Context, fixtureID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchupService.Reset")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	teamID = strings.TrimSpace(teamID)
	if fixtureID == "" || teamID == "" {
		return fmt.Errorf("%w: fixture_id and team_id are required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return err
	}
	home, ok := fx.Side(teamID)
	if !ok {
		return fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, teamID, fixtureID)
	}
	if !home {
		return fmt.Errorf("%w: only the home team may reset matchups", ErrNotAuthorized)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)
	phase := round.PhaseAt(rnd, s.settings.Location, s.clock.Now())
	if phase != round.PhaseHomeFixture {
		sched, _, schedErr := round.ResolveSchedule(rnd, s.settings.Location)
		if schedErr != nil {
			return fmt.Errorf("resolve round schedule: %w", schedErr)
		}
		return &DeadlineError{Op: "matchup reset", Phase: phase, Deadline: sched.HomeLineup}
	}

	batch, exists, err := s.matchups.Get(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("get matchups: %w", err)
	}
	if exists && batch.HasResults() {
		return fmt.Errorf("%w: matchups with entered scores cannot be reset", ErrValidation)
	}

	if err := s.matchups.Delete(ctx, fixtureID); err != nil {
		return fmt.Errorf("delete matchups: %w", err)
	}

	s.logger.InfoContext(ctx, "matchups reset", "fixture_id", fixtureID, "team_id", teamID)
	return nil
}

// editableBatch loads the batch and enforces the two edit-rights windows:
// the home team before the home deadline, or the original creator while the
// round remains in fixture entry.
func (s *MatchupService) editableBatch(ctx context.Context, fixtureID, teamID string) (fixture.Fixture, matchup.Batch, error) {
	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, matchup.Batch{}, err
	}
	home, ok := fx.Side(teamID)
	if !ok {
		return fixture.Fixture{}, matchup.Batch{}, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, teamID, fixtureID)
	}

	batch, exists, err := s.matchups.Get(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, matchup.Batch{}, fmt.Errorf("get matchups: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, matchup.Batch{}, fmt.Errorf("%w: matchups for fixture %s", ErrNotFound, fixtureID)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return fixture.Fixture{}, matchup.Batch{}, err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)
	phase := round.PhaseAt(rnd, s.settings.Location, s.clock.Now())

	switch {
	case home && phase == round.PhaseHomeFixture:
		return fx, batch, nil
	case phase == round.PhaseFixtureEntry && batch.CreatedBy == teamID:
		return fx, batch, nil
	case phase == round.PhaseHomeFixture, phase == round.PhaseFixtureEntry:
		return fixture.Fixture{}, matchup.Batch{}, fmt.Errorf("%w: matchup edit rights belong to team %s", ErrNotAuthorized, batch.CreatedBy)
	default:
		sched, _, schedErr := round.ResolveSchedule(rnd, s.settings.Location)
		if schedErr != nil {
			return fixture.Fixture{}, matchup.Batch{}, fmt.Errorf("resolve round schedule: %w", schedErr)
		}
		return fixture.Fixture{}, matchup.Batch{}, &DeadlineError{Op: "matchup edit", Phase: phase, Deadline: sched.AwayLineup}
	}
}

func (s *MatchupService) commit(ctx context.Context, batch matchup.Batch) error {
	if err := s.matchups.Update(ctx, batch); err != nil {
		if errors.Is(err, matchup.ErrVersionMismatch) {
			return &ConflictError{FixtureID: batch.FixtureID}
		}
		return fmt.Errorf("update matchups: %w", err)
	}
	return nil
}

func (s *MatchupService) bothLineups(ctx context.Context, fx fixture.Fixture) (lineup.Lineup, lineup.Lineup, error) {
	homeLineup, exists, err := s.lineupRepo.Get(ctx, fx.ID, fx.HomeTeamID)
	if err != nil {
		return lineup.Lineup{}, lineup.Lineup{}, fmt.Errorf("get home lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, lineup.Lineup{}, fmt.Errorf("%w: home team has not submitted a lineup", ErrValidation)
	}
	awayLineup, exists, err := s.lineupRepo.Get(ctx, fx.ID, fx.AwayTeamID)
	if err != nil {
		return lineup.Lineup{}, lineup.Lineup{}, fmt.Errorf("get away lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, lineup.Lineup{}, fmt.Errorf("%w: away team has not submitted a lineup", ErrValidation)
	}
	return homeLineup, awayLineup, nil
}

// buildPairings resolves the creator's index mapping against both starting
// lineups: every home starter paired exactly once, every away assignment
// drawn from the away starters.
func (s *MatchupService) buildPairings(assignments []PairingAssignment, homeLineup, awayLineup lineup.Lineup) ([]matchup.Pairing, error) {
	size := s.settings.SquadSize
	if len(assignments) != size {
		return nil, fmt.Errorf("%w: expected %d pairings, got %d", ErrValidation, size, len(assignments))
	}

	homeStarters := make(map[string]lineup.Player, len(homeLineup.Starters))
	for _, p := range homeLineup.Starters {
		homeStarters[p.ID] = p
	}
	awayStarters := make(map[string]lineup.Player, len(awayLineup.Starters))
	for _, p := range awayLineup.Starters {
		awayStarters[p.ID] = p
	}

	pairedHome := make(map[string]struct{}, size)
	pairings := make([]matchup.Pairing, 0, size)
	for _, a := range assignments {
		homePlayer, ok := homeStarters[strings.TrimSpace(a.HomePlayerID)]
		if !ok {
			return nil, fmt.Errorf("%w: player %s is not a home starter", ErrValidation, a.HomePlayerID)
		}
		if _, dup := pairedHome[homePlayer.ID]; dup {
			return nil, fmt.Errorf("%w: home starter %s paired more than once", ErrValidation, homePlayer.ID)
		}
		pairedHome[homePlayer.ID] = struct{}{}

		awayPlayer, ok := awayStarters[strings.TrimSpace(a.AwayPlayerID)]
		if !ok {
			return nil, fmt.Errorf("%w: player %s is not an away starter", ErrValidation, a.AwayPlayerID)
		}

		duration := a.DurationMinutes
		if duration <= 0 {
			duration = s.settings.DefaultDurationMinutes
		}

		pairings = append(pairings, matchup.Pairing{
			Position:        a.Position,
			HomePlayer:      homePlayer,
			AwayPlayer:      awayPlayer,
			DurationMinutes: duration,
		})
	}

	return pairings, nil
}

func pairingIndex(batch matchup.Batch, position int) int {
	for i, p := range batch.Pairings {
		if p.Position == position {
			return i
		}
	}
	return -1
}

func (s *MatchupService) getFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return fx, nil
}
