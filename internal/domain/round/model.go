package round

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

const (
	LegFirst  = "first"
	LegSecond = "second"
)

// Round is one round of fixtures within a season leg, together with the
// deadline configuration that drives its lifecycle.
type Round struct {
	ID            string
	SeasonID      string
	Number        int
	Leg           string
	Status        string
	ScheduledDate string // YYYY-MM-DD; empty when the round is not scheduled yet
	Deadlines     DeadlineConfig
	UpdatedAt     time.Time
}

// DeadlineConfig holds the per-round deadline offsets. Times of day use the
// HH:MM format; day offsets count from the scheduled date. Substitution
// deadlines are optional and fall back to the result-entry deadline.
type DeadlineConfig struct {
	HomeLineupTime string
	AwayLineupTime string

	HomeSubDayOffset *int
	HomeSubTime      string
	AwaySubDayOffset *int
	AwaySubTime      string

	ResultDayOffset int
	ResultTime      string
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsActiveStatus(status string) bool {
	return NormalizeStatus(status) == StatusActive
}

func NormalizeLeg(value string) string {
	leg := strings.ToLower(strings.TrimSpace(value))
	if leg == "" {
		return LegFirst
	}
	return leg
}
