package resilience

import (
	"errors"
	"testing"
	"time"
)

func testBreaker(threshold int, timeout time.Duration, halfOpenMax int) (*CircuitBreaker, *time.Time) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(threshold, timeout, halfOpenMax)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := testBreaker(3, 15*time.Second, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("breaker must stay closed below the threshold: %v", err)
	}

	b.RecordFailure()
	if b.State() != CircuitStateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := testBreaker(3, 15*time.Second, 1)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	if b.State() != CircuitStateClosed {
		t.Fatalf("interleaved success must reset the count, got %s", b.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	b, now := testBreaker(1, 15*time.Second, 1)

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	*now = now.Add(16 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open trial must be admitted: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second trial must be rejected while one is in flight, got %v", err)
	}

	b.RecordSuccess()
	if b.State() != CircuitStateClosed {
		t.Fatalf("expected closed after successful trial, got %s", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must admit requests: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now := testBreaker(1, 15*time.Second, 1)

	b.RecordFailure()
	*now = now.Add(16 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("half-open trial: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed trial must reopen the breaker, got %v", err)
	}

	// The open window restarts from the failed trial.
	*now = now.Add(14 * time.Second)
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("breaker must stay open inside the restarted window, got %v", err)
	}
}

func TestCircuitBreaker_DefaultsClampInvalidConfig(t *testing.T) {
	b := NewCircuitBreaker(0, 0, 0)

	if b.failureThreshold != 1 {
		t.Fatalf("expected threshold clamped to 1, got %d", b.failureThreshold)
	}
	if b.openTimeout != 15*time.Second {
		t.Fatalf("expected default open timeout, got %s", b.openTimeout)
	}
	if b.halfOpenMaxReq != 1 {
		t.Fatalf("expected half-open max clamped to 1, got %d", b.halfOpenMaxReq)
	}
}
