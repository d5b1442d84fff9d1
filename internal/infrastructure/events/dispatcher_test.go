package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

type recordingSink struct {
	mu     sync.Mutex
	events []result.FixtureResult
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event result.FixtureResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testEvent() result.FixtureResult {
	return result.FixtureResult{
		EventID:     "evt-1",
		FixtureID:   "fx-1",
		Outcome:     "home_win",
		FinalizedAt: time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_Publish_FansOutToAllSinks(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	dispatcher, err := NewDispatcher([]result.EventSink{first, second}, 2, time.Second, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	defer dispatcher.Close()

	if err := dispatcher.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if first.count() != 1 || second.count() != 1 {
		t.Fatalf("expected one delivery per sink, got %d and %d", first.count(), second.count())
	}
	if first.events[0].EventID != "evt-1" {
		t.Fatalf("unexpected event id %s", first.events[0].EventID)
	}
}

func TestDispatcher_Publish_SinkFailureDoesNotBlockOthers(t *testing.T) {
	failing := &recordingSink{err: errors.New("endpoint down")}
	healthy := &recordingSink{}
	dispatcher, err := NewDispatcher([]result.EventSink{failing, healthy}, 2, time.Second, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	defer dispatcher.Close()

	if err := dispatcher.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("delivery failures must stay best effort: %v", err)
	}
	if healthy.count() != 1 {
		t.Fatalf("expected healthy sink delivery, got %d", healthy.count())
	}
}

func TestDispatcher_Publish_SurvivesCanceledRequestContext(t *testing.T) {
	sink := &recordingSink{}
	dispatcher, err := NewDispatcher([]result.EventSink{sink}, 1, time.Second, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	defer dispatcher.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := dispatcher.Publish(ctx, testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("delivery must detach from the request context, got %d deliveries", sink.count())
	}
}

func TestDispatcher_Publish_NoSinks(t *testing.T) {
	dispatcher, err := NewDispatcher(nil, 1, time.Second, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	defer dispatcher.Close()

	if err := dispatcher.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish with no sinks: %v", err)
	}
}
