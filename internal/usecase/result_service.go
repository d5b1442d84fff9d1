package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/platform/id"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type PairingScore struct {
	Position  int
	HomeGoals int
	AwayGoals int
}

type EnterResultInput struct {
	FixtureID     string
	TeamID        string
	Scores        []PairingScore
	MOTMPlayerID  string
	HomeFineGoals int
	AwayFineGoals int
}

// ResultService finalizes fixtures once the result-entry window opens.
// Totals are derived, never supplied: player goals plus opponent
// substitution penalties plus the side's own fine goals. Finalizing emits a
// FixtureResult event to every configured sink; sink failures are logged
// and do not roll back the fixture.
type ResultService struct {
	fixtureRepo fixture.Repository
	roundRepo   round.Repository
	matchups    matchup.Store
	sinks       []result.EventSink
	idGen       id.Generator
	settings    Settings
	clock       clockwork.Clock
	logger      *logging.Logger
}

func NewResultService(
	fixtureRepo fixture.Repository,
	roundRepo round.Repository,
	matchups matchup.Store,
	sinks []result.EventSink,
	idGen id.Generator,
	settings Settings,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	return &ResultService{
		fixtureRepo: fixtureRepo,
		roundRepo:   roundRepo,
		matchups:    matchups,
		sinks:       sinks,
		idGen:       idGen,
		settings:    settings.normalized(),
		clock:       clockwork.NewRealClock(),
		logger:      logger,
	}
}

func (s *ResultService) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Enter records per-pairing scores and finalizes the fixture. Re-entering a
// result while the window is still open overwrites the previous one and
// emits a fresh event.
func (s *ResultService) Enter(ctx context.Context, input EnterResultInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Enter")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.MOTMPlayerID = strings.TrimSpace(input.MOTMPlayerID)
	if input.FixtureID == "" || input.TeamID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture_id and team_id are required", ErrInvalidInput)
	}
	if input.MOTMPlayerID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: man of the match is required", ErrValidation)
	}
	if input.HomeFineGoals < 0 || input.AwayFineGoals < 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fine goals must not be negative", ErrValidation)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture by id: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, input.FixtureID)
	}
	if _, ok := fx.Side(input.TeamID); !ok {
		return fixture.Fixture{}, fmt.Errorf("%w: team %s does not play fixture %s", ErrNotAuthorized, input.TeamID, input.FixtureID)
	}

	rnd, err := getRound(ctx, s.roundRepo, fx.RoundID)
	if err != nil {
		return fixture.Fixture{}, err
	}
	rnd = s.settings.withDeadlineDefaults(rnd)

	now := s.clock.Now()
	phase := round.PhaseAt(rnd, s.settings.Location, now)
	if phase != round.PhaseResultEntry {
		var deadline = now
		if sched, scheduled, schedErr := round.ResolveSchedule(rnd, s.settings.Location); schedErr == nil && scheduled {
			deadline = sched.ResultEntry
		}
		return fixture.Fixture{}, &DeadlineError{Op: "result entry", Phase: phase, Deadline: deadline}
	}

	batch, exists, err := s.matchups.Get(ctx, input.FixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get matchups: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: matchups for fixture %s", ErrNotFound, input.FixtureID)
	}

	if err := applyScores(&batch, input.Scores); err != nil {
		return fixture.Fixture{}, err
	}
	if !motmParticipated(batch, input.MOTMPlayerID) {
		return fixture.Fixture{}, fmt.Errorf("%w: man of the match %s did not play this fixture", ErrValidation, input.MOTMPlayerID)
	}

	fx.HomeFineGoals = input.HomeFineGoals
	fx.AwayFineGoals = input.AwayFineGoals

	homeBreakdown, awayBreakdown := result.Totals(batch, fx)
	outcome := result.Outcome(homeBreakdown.Total, awayBreakdown.Total)

	if err := s.matchups.Update(ctx, batch); err != nil {
		if errors.Is(err, matchup.ErrVersionMismatch) {
			return fixture.Fixture{}, &ConflictError{FixtureID: input.FixtureID}
		}
		return fixture.Fixture{}, fmt.Errorf("update matchups: %w", err)
	}

	finalizedAt := now.UTC()
	homeTotal, awayTotal := homeBreakdown.Total, awayBreakdown.Total
	fx.HomeScore = &homeTotal
	fx.AwayScore = &awayTotal
	fx.Outcome = outcome
	fx.Status = fixture.StatusCompleted
	fx.MOTMPlayerID = input.MOTMPlayerID
	fx.MOTMPlayerName = motmName(batch, input.MOTMPlayerID)
	fx.CompletedAt = &finalizedAt
	fx.UpdatedAt = finalizedAt

	if err := s.fixtureRepo.Upsert(ctx, fx); err != nil {
		return fixture.Fixture{}, fmt.Errorf("update fixture: %w", err)
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate event id failed", "fixture_id", fx.ID, "error", err)
		eventID = fmt.Sprintf("%s-%d", fx.ID, finalizedAt.UnixNano())
	}
	event := s.buildEvent(eventID, fx, batch, homeBreakdown, awayBreakdown, finalizedAt)
	s.publish(ctx, event)

	s.logger.InfoContext(ctx, "fixture result finalized",
		"fixture_id", fx.ID,
		"round_id", fx.RoundID,
		"home_total", homeTotal,
		"away_total", awayTotal,
		"outcome", outcome,
		"entered_by", input.TeamID,
	)

	return fx, nil
}

func (s *ResultService) buildEvent(eventID string, fx fixture.Fixture, batch matchup.Batch, home, away result.Breakdown, finalizedAt time.Time) result.FixtureResult {
	event := result.FixtureResult{
		EventID:     eventID,
		FixtureID:   fx.ID,
		SeasonID:    fx.SeasonID,
		RoundID:     fx.RoundID,
		HomeTeamID:  fx.HomeTeamID,
		AwayTeamID:  fx.AwayTeamID,
		Home:        home,
		Away:        away,
		Outcome:     fx.Outcome,
		MOTMPlayer:  fx.MOTMPlayerID,
		FinalizedAt: finalizedAt,
	}
	for _, p := range batch.Pairings {
		line := result.PairingLine{
			Position:     p.Position,
			HomePlayerID: p.HomePlayer.ID,
			AwayPlayerID: p.AwayPlayer.ID,
		}
		if p.HomeGoals != nil {
			line.HomeGoals = *p.HomeGoals
		}
		if p.AwayGoals != nil {
			line.AwayGoals = *p.AwayGoals
		}
		event.Pairings = append(event.Pairings, line)

		if p.HomeSubstitution != nil {
			event.Substitutions = append(event.Substitutions, result.SubstitutionRecord{
				Position:         p.Position,
				HomeSide:         true,
				OriginalPlayerID: p.HomeSubstitution.OriginalPlayer.ID,
				ActivePlayerID:   p.HomePlayer.ID,
				PenaltyGoals:     p.HomeSubstitution.PenaltyGoals,
				MadeAt:           p.HomeSubstitution.MadeAt,
			})
		}
		if p.AwaySubstitution != nil {
			event.Substitutions = append(event.Substitutions, result.SubstitutionRecord{
				Position:         p.Position,
				HomeSide:         false,
				OriginalPlayerID: p.AwaySubstitution.OriginalPlayer.ID,
				ActivePlayerID:   p.AwayPlayer.ID,
				PenaltyGoals:     p.AwaySubstitution.PenaltyGoals,
				MadeAt:           p.AwaySubstitution.MadeAt,
			})
		}
	}
	return event
}

func (s *ResultService) publish(ctx context.Context, event result.FixtureResult) {
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "result event sink failed",
				"event_id", event.EventID,
				"fixture_id", event.FixtureID,
				"error", err,
			)
		}
	}
}

func applyScores(batch *matchup.Batch, scores []PairingScore) error {
	if len(scores) != len(batch.Pairings) {
		return fmt.Errorf("%w: expected scores for %d pairings, got %d", ErrValidation, len(batch.Pairings), len(scores))
	}
	scored := make(map[int]struct{}, len(scores))
	for _, sc := range scores {
		if sc.HomeGoals < 0 || sc.AwayGoals < 0 {
			return fmt.Errorf("%w: goals must not be negative at position %d", ErrValidation, sc.Position)
		}
		if _, dup := scored[sc.Position]; dup {
			return fmt.Errorf("%w: duplicate score for position %d", ErrValidation, sc.Position)
		}
		scored[sc.Position] = struct{}{}

		idx := -1
		for i, p := range batch.Pairings {
			if p.Position == sc.Position {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: no pairing at position %d", ErrValidation, sc.Position)
		}
		homeGoals, awayGoals := sc.HomeGoals, sc.AwayGoals
		batch.Pairings[idx].HomeGoals = &homeGoals
		batch.Pairings[idx].AwayGoals = &awayGoals
	}
	return nil
}

// motmParticipated accepts only players who finished the fixture on the
// pitch. After a substitution the pairing carries the replacement, so a
// starter who was substituted off is no longer eligible.
func motmParticipated(batch matchup.Batch, playerID string) bool {
	for _, p := range batch.Pairings {
		if p.HomePlayer.ID == playerID || p.AwayPlayer.ID == playerID {
			return true
		}
	}
	return false
}

func motmName(batch matchup.Batch, playerID string) string {
	for _, p := range batch.Pairings {
		if p.HomePlayer.ID == playerID {
			return p.HomePlayer.Name
		}
		if p.AwayPlayer.ID == playerID {
			return p.AwayPlayer.Name
		}
	}
	return ""
}
