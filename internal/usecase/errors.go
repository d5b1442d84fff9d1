package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/round"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrPhaseViolation marks an operation attempted outside its valid
	// phase window.
	ErrPhaseViolation = errors.New("operation outside its phase window")

	// ErrConflict marks a lost matchup-creation race; the caller must
	// discard its draft and reload the winner's batch.
	ErrConflict = errors.New("matchups already created")

	// ErrValidation marks a structural invariant violation rejected before
	// any write.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthorized marks a caller that lacks the edit or creation
	// rights for the operation at this time.
	ErrNotAuthorized = errors.New("team lacks rights for this operation")
)

// DeadlineError is a phase violation that names the deadline the caller
// missed, so clients can render deadline-specific messaging.
type DeadlineError struct {
	Op       string
	Phase    round.Phase
	Deadline time.Time
}

func (e *DeadlineError) Error() string {
	if e.Deadline.IsZero() {
		return fmt.Sprintf("%s not permitted in %s phase", e.Op, e.Phase)
	}
	return fmt.Sprintf("%s deadline passed at %s (phase %s)", e.Op, e.Deadline.Format(time.RFC3339), e.Phase)
}

func (e *DeadlineError) Unwrap() error { return ErrPhaseViolation }

// ConflictError reports who won the creation race when that is known.
type ConflictError struct {
	FixtureID string
	CreatedBy string
}

func (e *ConflictError) Error() string {
	if e.CreatedBy == "" {
		return fmt.Sprintf("matchups for fixture %s were already created by the other team", e.FixtureID)
	}
	return fmt.Sprintf("matchups for fixture %s were already created by team %s", e.FixtureID, e.CreatedBy)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
