package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/platform/id"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type UpsertRoundInput struct {
	ID            string // empty creates a new round
	SeasonID      string
	Number        int
	Leg           string
	ScheduledDate string
	Deadlines     *round.DeadlineConfig // nil keeps the current configuration
}

// RoundView is a round together with its derived lifecycle state.
type RoundView struct {
	Round     round.Round
	Phase     round.Phase
	Schedule  round.Schedule
	Scheduled bool
}

// RoundService administers rounds: scheduling, deadline configuration and
// status transitions. At most one round per season is active at a time.
type RoundService struct {
	roundRepo round.Repository
	idGen     id.Generator
	settings  Settings
	clock     clockwork.Clock
	logger    *logging.Logger
}

func NewRoundService(roundRepo round.Repository, idGen id.Generator, settings Settings, logger *logging.Logger) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &RoundService{
		roundRepo: roundRepo,
		idGen:     idGen,
		settings:  settings.normalized(),
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
}

func (s *RoundService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Get returns the round with its phase and resolved deadlines.
func (s *RoundService) Get(ctx context.Context, roundID string) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Get")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return RoundView{}, fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	rnd, err := getRound(ctx, s.roundRepo, roundID)
	if err != nil {
		return RoundView{}, err
	}
	return s.view(rnd), nil
}

// ListBySeason returns all rounds of a season with derived state.
func (s *RoundService) ListBySeason(ctx context.Context, seasonID string) ([]RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	rounds, err := s.roundRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list rounds by season: %w", err)
	}

	views := make([]RoundView, 0, len(rounds))
	for _, rnd := range rounds {
		views = append(views, s.view(rnd))
	}
	return views, nil
}

// Upsert creates or reconfigures a round. Deadline and date changes are
// rejected once the round is active so that a live window cannot be moved
// under the teams.
func (s *RoundService) Upsert(ctx context.Context, input UpsertRoundInput) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Upsert")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.ScheduledDate = strings.TrimSpace(input.ScheduledDate)
	if input.SeasonID == "" {
		return RoundView{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}
	if input.Number <= 0 {
		return RoundView{}, fmt.Errorf("%w: round number must be positive", ErrValidation)
	}

	now := s.clock.Now()
	var rnd round.Round
	if roundID := strings.TrimSpace(input.ID); roundID != "" {
		existing, err := getRound(ctx, s.roundRepo, roundID)
		if err != nil {
			return RoundView{}, err
		}
		if round.IsActiveStatus(existing.Status) {
			return RoundView{}, fmt.Errorf("%w: round %s is active and cannot be reconfigured", ErrValidation, roundID)
		}
		rnd = existing
	} else {
		newID, err := s.idGen.NewID()
		if err != nil {
			return RoundView{}, fmt.Errorf("generate round id: %w", err)
		}
		rnd = round.Round{
			ID:        newID,
			SeasonID:  input.SeasonID,
			Status:    round.StatusScheduled,
			Deadlines: s.settings.DeadlineDefaults,
		}
	}

	rnd.SeasonID = input.SeasonID
	rnd.Number = input.Number
	rnd.Leg = round.NormalizeLeg(input.Leg)
	rnd.ScheduledDate = input.ScheduledDate
	if input.Deadlines != nil {
		rnd.Deadlines = *input.Deadlines
	}
	rnd.UpdatedAt = now.UTC()

	if err := s.validateSchedule(rnd); err != nil {
		return RoundView{}, err
	}

	if err := s.roundRepo.Upsert(ctx, rnd); err != nil {
		return RoundView{}, fmt.Errorf("upsert round: %w", err)
	}

	s.logger.InfoContext(ctx, "round upserted",
		"round_id", rnd.ID,
		"season_id", rnd.SeasonID,
		"number", rnd.Number,
		"leg", rnd.Leg,
		"scheduled_date", rnd.ScheduledDate,
	)

	return s.view(rnd), nil
}

// Activate opens the round's deadline windows. The round must be scheduled
// with a date, and no other round of the season may be active.
func (s *RoundService) Activate(ctx context.Context, roundID string) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Activate")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return RoundView{}, fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	rnd, err := getRound(ctx, s.roundRepo, roundID)
	if err != nil {
		return RoundView{}, err
	}
	if round.IsActiveStatus(rnd.Status) {
		return s.view(rnd), nil
	}
	if round.NormalizeStatus(rnd.Status) == round.StatusCompleted {
		return RoundView{}, fmt.Errorf("%w: round %s is completed", ErrValidation, roundID)
	}
	if strings.TrimSpace(rnd.ScheduledDate) == "" {
		return RoundView{}, fmt.Errorf("%w: round %s has no scheduled date", ErrValidation, roundID)
	}
	if err := s.validateSchedule(rnd); err != nil {
		return RoundView{}, err
	}

	siblings, err := s.roundRepo.ListBySeason(ctx, rnd.SeasonID)
	if err != nil {
		return RoundView{}, fmt.Errorf("list rounds by season: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != rnd.ID && round.IsActiveStatus(sibling.Status) {
			return RoundView{}, fmt.Errorf("%w: round %s is already active in season %s", ErrValidation, sibling.ID, rnd.SeasonID)
		}
	}

	rnd.Status = round.StatusActive
	rnd.UpdatedAt = s.clock.Now().UTC()
	if err := s.roundRepo.Upsert(ctx, rnd); err != nil {
		return RoundView{}, fmt.Errorf("upsert round: %w", err)
	}

	s.logger.InfoContext(ctx, "round activated", "round_id", rnd.ID, "season_id", rnd.SeasonID)
	return s.view(rnd), nil
}

// Pause freezes a live round. A paused round reports the closed phase, so
// every mutation window stays shut until the round is activated again.
func (s *RoundService) Pause(ctx context.Context, roundID string) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Pause")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return RoundView{}, fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	rnd, err := getRound(ctx, s.roundRepo, roundID)
	if err != nil {
		return RoundView{}, err
	}
	switch round.NormalizeStatus(rnd.Status) {
	case round.StatusPaused:
		return s.view(rnd), nil
	case round.StatusActive:
	default:
		return RoundView{}, fmt.Errorf("%w: only an active round can be paused", ErrValidation)
	}

	rnd.Status = round.StatusPaused
	rnd.UpdatedAt = s.clock.Now().UTC()
	if err := s.roundRepo.Upsert(ctx, rnd); err != nil {
		return RoundView{}, fmt.Errorf("upsert round: %w", err)
	}

	s.logger.InfoContext(ctx, "round paused", "round_id", rnd.ID, "season_id", rnd.SeasonID)
	return s.view(rnd), nil
}

// Complete closes the round regardless of remaining wall-clock time.
func (s *RoundService) Complete(ctx context.Context, roundID string) (RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Complete")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return RoundView{}, fmt.Errorf("%w: round_id is required", ErrInvalidInput)
	}

	rnd, err := getRound(ctx, s.roundRepo, roundID)
	if err != nil {
		return RoundView{}, err
	}
	if round.NormalizeStatus(rnd.Status) == round.StatusCompleted {
		return s.view(rnd), nil
	}

	rnd.Status = round.StatusCompleted
	rnd.UpdatedAt = s.clock.Now().UTC()
	if err := s.roundRepo.Upsert(ctx, rnd); err != nil {
		return RoundView{}, fmt.Errorf("upsert round: %w", err)
	}

	s.logger.InfoContext(ctx, "round completed", "round_id", rnd.ID, "season_id", rnd.SeasonID)
	return s.view(rnd), nil
}

// validateSchedule rejects deadline configurations that would fail to
// resolve once the round goes live. Rounds without a date defer the check
// to a representative date so malformed times are still caught early.
func (s *RoundService) validateSchedule(rnd round.Round) error {
	trial := s.settings.withDeadlineDefaults(rnd)
	if strings.TrimSpace(trial.ScheduledDate) == "" {
		trial.ScheduledDate = s.clock.Now().In(s.settings.Location).Format(time.DateOnly)
	}
	if _, _, err := round.ResolveSchedule(trial, s.settings.Location); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *RoundService) view(rnd round.Round) RoundView {
	withDefaults := s.settings.withDeadlineDefaults(rnd)
	sched, scheduled, _ := round.ResolveSchedule(withDefaults, s.settings.Location)
	return RoundView{
		Round:     rnd,
		Phase:     round.PhaseAt(withDefaults, s.settings.Location, s.clock.Now()),
		Schedule:  sched,
		Scheduled: scheduled,
	}
}
