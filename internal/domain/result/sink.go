package result

import "context"

// EventSink receives finalized fixture results. Publishing is best effort:
// a sink failure is logged for retry and never rolls back the fixture's
// completed transition.
type EventSink interface {
	Publish(ctx context.Context, event FixtureResult) error
}
