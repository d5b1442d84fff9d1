package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

// Settings carries the league-wide engine configuration shared by the
// services: the fixed time zone all deadline math runs in, the pairing
// count per fixture, and fallback deadline times for rounds that were
// never explicitly configured.
type Settings struct {
	Location               *time.Location
	SquadSize              int
	DefaultDurationMinutes int
	DeadlineDefaults       round.DeadlineConfig
}

func DefaultSettings() Settings {
	return Settings{
		Location:               time.FixedZone("IST", 5*3600+30*60),
		SquadSize:              5,
		DefaultDurationMinutes: 6,
		DeadlineDefaults: round.DeadlineConfig{
			HomeLineupTime:  "17:00",
			AwayLineupTime:  "17:00",
			ResultDayOffset: 2,
			ResultTime:      "00:30",
		},
	}
}

func (s Settings) normalized() Settings {
	defaults := DefaultSettings()
	if s.Location == nil {
		s.Location = defaults.Location
	}
	if s.SquadSize < 1 {
		s.SquadSize = defaults.SquadSize
	}
	if s.DefaultDurationMinutes < 1 {
		s.DefaultDurationMinutes = defaults.DefaultDurationMinutes
	}
	if s.DeadlineDefaults.HomeLineupTime == "" {
		s.DeadlineDefaults.HomeLineupTime = defaults.DeadlineDefaults.HomeLineupTime
	}
	if s.DeadlineDefaults.AwayLineupTime == "" {
		s.DeadlineDefaults.AwayLineupTime = defaults.DeadlineDefaults.AwayLineupTime
	}
	if s.DeadlineDefaults.ResultDayOffset < 1 {
		s.DeadlineDefaults.ResultDayOffset = defaults.DeadlineDefaults.ResultDayOffset
	}
	if s.DeadlineDefaults.ResultTime == "" {
		s.DeadlineDefaults.ResultTime = defaults.DeadlineDefaults.ResultTime
	}
	return s
}

// withDeadlineDefaults fills any unset deadline fields on the round so
// phase math always runs against a complete configuration.
func (s Settings) withDeadlineDefaults(r round.Round) round.Round {
	if r.Deadlines.HomeLineupTime == "" {
		r.Deadlines.HomeLineupTime = s.DeadlineDefaults.HomeLineupTime
	}
	if r.Deadlines.AwayLineupTime == "" {
		r.Deadlines.AwayLineupTime = s.DeadlineDefaults.AwayLineupTime
	}
	if r.Deadlines.ResultDayOffset < 1 {
		r.Deadlines.ResultDayOffset = s.DeadlineDefaults.ResultDayOffset
	}
	if r.Deadlines.ResultTime == "" {
		r.Deadlines.ResultTime = s.DeadlineDefaults.ResultTime
	}
	return r
}

func getRound(ctx context.Context, repo round.Repository, roundID string) (round.Round, error) {
	item, exists, err := repo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round by id: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	return item, nil
}
