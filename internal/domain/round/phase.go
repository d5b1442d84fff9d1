package round

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Phase is the lifecycle stage of a round, derived from its status and
// deadline configuration. It is never stored; callers recompute it from
// wall-clock time on every read.
type Phase string

const (
	PhaseDraft        Phase = "draft"
	PhaseHomeFixture  Phase = "home_fixture"
	PhaseFixtureEntry Phase = "fixture_entry"
	PhaseResultEntry  Phase = "result_entry"
	PhaseClosed       Phase = "closed"
)

// Schedule is the set of absolute deadlines resolved from a round's
// scheduled date and deadline configuration, all in the league's fixed
// time zone.
type Schedule struct {
	HomeLineup       time.Time
	AwayLineup       time.Time
	HomeSubstitution time.Time
	AwaySubstitution time.Time
	ResultEntry      time.Time
}

// SubstitutionDeadline returns the deadline for the given side's
// substitutions.
func (s Schedule) SubstitutionDeadline(home bool) time.Time {
	if home {
		return s.HomeSubstitution
	}
	return s.AwaySubstitution
}

// ResolveSchedule computes the round's absolute deadlines in loc. It reports
// false when the round has no scheduled date, in which case the round is
// permanently in the draft phase.
func ResolveSchedule(r Round, loc *time.Location) (Schedule, bool, error) {
	if strings.TrimSpace(r.ScheduledDate) == "" {
		return Schedule{}, false, nil
	}
	base, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(r.ScheduledDate), loc)
	if err != nil {
		return Schedule{}, false, fmt.Errorf("parse scheduled date %q: %w", r.ScheduledDate, err)
	}

	cfg := r.Deadlines
	homeLineup, err := atTimeOfDay(base, 0, cfg.HomeLineupTime)
	if err != nil {
		return Schedule{}, false, fmt.Errorf("home lineup deadline: %w", err)
	}
	awayLineup, err := atTimeOfDay(base, 0, cfg.AwayLineupTime)
	if err != nil {
		return Schedule{}, false, fmt.Errorf("away lineup deadline: %w", err)
	}
	resultEntry, err := atTimeOfDay(base, cfg.ResultDayOffset, cfg.ResultTime)
	if err != nil {
		return Schedule{}, false, fmt.Errorf("result entry deadline: %w", err)
	}

	homeSub := resultEntry
	if cfg.HomeSubDayOffset != nil && strings.TrimSpace(cfg.HomeSubTime) != "" {
		homeSub, err = atTimeOfDay(base, *cfg.HomeSubDayOffset, cfg.HomeSubTime)
		if err != nil {
			return Schedule{}, false, fmt.Errorf("home substitution deadline: %w", err)
		}
	}
	awaySub := resultEntry
	if cfg.AwaySubDayOffset != nil && strings.TrimSpace(cfg.AwaySubTime) != "" {
		awaySub, err = atTimeOfDay(base, *cfg.AwaySubDayOffset, cfg.AwaySubTime)
		if err != nil {
			return Schedule{}, false, fmt.Errorf("away substitution deadline: %w", err)
		}
	}

	sched := Schedule{
		HomeLineup:       homeLineup,
		AwayLineup:       awayLineup,
		HomeSubstitution: homeSub,
		AwaySubstitution: awaySub,
		ResultEntry:      resultEntry,
	}
	if err := sched.validateOrder(); err != nil {
		return Schedule{}, false, err
	}

	return sched, true, nil
}

// PhaseAt derives the round's current phase at the given instant. Unknown
// statuses resolve to closed so that a corrupt record can never reopen a
// mutation window.
func PhaseAt(r Round, loc *time.Location, now time.Time) Phase {
	sched, scheduled, err := ResolveSchedule(r, loc)
	if err != nil || !scheduled {
		if err != nil {
			return PhaseClosed
		}
		return PhaseDraft
	}

	switch NormalizeStatus(r.Status) {
	case StatusScheduled:
		return PhaseDraft
	case StatusActive:
		switch {
		case now.Before(sched.HomeLineup):
			return PhaseHomeFixture
		case now.Before(sched.AwayLineup):
			return PhaseFixtureEntry
		case now.Before(sched.ResultEntry):
			return PhaseResultEntry
		default:
			return PhaseClosed
		}
	case StatusPaused, StatusCompleted:
		return PhaseClosed
	default:
		return PhaseClosed
	}
}

func (s Schedule) validateOrder() error {
	if s.AwayLineup.Before(s.HomeLineup) {
		return fmt.Errorf("away lineup deadline %s precedes home lineup deadline %s", s.AwayLineup, s.HomeLineup)
	}
	if s.ResultEntry.Before(s.AwayLineup) {
		return fmt.Errorf("result entry deadline %s precedes away lineup deadline %s", s.ResultEntry, s.AwayLineup)
	}
	return nil
}

func atTimeOfDay(base time.Time, dayOffset int, timeOfDay string) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	day := base.AddDate(0, 0, dayOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, base.Location()), nil
}

func parseTimeOfDay(value string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}
