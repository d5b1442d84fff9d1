package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/platform/id"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type CreateFixtureInput struct {
	SeasonID     string
	RoundID      string
	MatchNumber  int
	HomeTeamID   string
	HomeTeamName string
	AwayTeamID   string
	AwayTeamName string
}

// FixtureService covers fixture reads and the administrative creation that
// happens when a round is laid out. Result writes live in ResultService.
type FixtureService struct {
	fixtureRepo fixture.Repository
	roundRepo   round.Repository
	idGen       id.Generator
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewFixtureService(fixtureRepo fixture.Repository, roundRepo round.Repository, idGen id.Generator, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		roundRepo:   roundRepo,
		idGen:       idGen,
		clock:       clockwork.NewRealClock(),
		logger:      logger,
	}
}

func (s *FixtureService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

func (s *FixtureService) Get(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Get")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return fx, nil
}

func (s *FixtureService) ListByRound(ctx context.Context, roundID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByRound")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return nil, fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	fixtures, err := s.fixtureRepo.ListByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by round: %w", err)
	}
	return fixtures, nil
}

// Create registers a fixture in a round that has not gone live yet.
func (s *FixtureService) Create(ctx context.Context, input CreateFixtureInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Create")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.RoundID = strings.TrimSpace(input.RoundID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	if input.SeasonID == "" || input.RoundID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: season_id and round_id are required", ErrInvalidInput)
	}
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: both team ids are required", ErrValidation)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return fixture.Fixture{}, fmt.Errorf("%w: a team cannot play itself", ErrValidation)
	}
	if input.MatchNumber <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: match number must be positive", ErrValidation)
	}

	rnd, err := getRound(ctx, s.roundRepo, input.RoundID)
	if err != nil {
		return fixture.Fixture{}, err
	}
	if rnd.SeasonID != input.SeasonID {
		return fixture.Fixture{}, fmt.Errorf("%w: round %s does not belong to season %s", ErrValidation, input.RoundID, input.SeasonID)
	}
	if round.NormalizeStatus(rnd.Status) != round.StatusScheduled {
		return fixture.Fixture{}, fmt.Errorf("%w: fixtures can only be added while the round is scheduled", ErrValidation)
	}

	siblings, err := s.fixtureRepo.ListByRound(ctx, input.RoundID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("list fixtures by round: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.MatchNumber == input.MatchNumber {
			return fixture.Fixture{}, fmt.Errorf("%w: match number %d is taken in round %s", ErrValidation, input.MatchNumber, input.RoundID)
		}
		if _, clash := sibling.Side(input.HomeTeamID); clash {
			return fixture.Fixture{}, fmt.Errorf("%w: team %s already plays in round %s", ErrValidation, input.HomeTeamID, input.RoundID)
		}
		if _, clash := sibling.Side(input.AwayTeamID); clash {
			return fixture.Fixture{}, fmt.Errorf("%w: team %s already plays in round %s", ErrValidation, input.AwayTeamID, input.RoundID)
		}
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("generate fixture id: %w", err)
	}

	fx := fixture.Fixture{
		ID:           newID,
		SeasonID:     input.SeasonID,
		RoundID:      input.RoundID,
		MatchNumber:  input.MatchNumber,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		HomeTeamName: strings.TrimSpace(input.HomeTeamName),
		AwayTeamName: strings.TrimSpace(input.AwayTeamName),
		Status:       fixture.StatusScheduled,
		UpdatedAt:    s.clock.Now().UTC(),
	}
	if err := s.fixtureRepo.Upsert(ctx, fx); err != nil {
		return fixture.Fixture{}, fmt.Errorf("upsert fixture: %w", err)
	}

	s.logger.InfoContext(ctx, "fixture created",
		"fixture_id", fx.ID,
		"round_id", fx.RoundID,
		"match_number", fx.MatchNumber,
		"home_team_id", fx.HomeTeamID,
		"away_team_id", fx.AwayTeamID,
	)

	return fx, nil
}
