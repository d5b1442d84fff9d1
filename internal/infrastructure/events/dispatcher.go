package events

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

// Dispatcher fans one finalized-result event out to several sinks on a
// shared worker pool. Delivery is best effort per sink: one sink failing
// never blocks the others, and the dispatcher itself reports success as
// long as the event was handed to the pool.
type Dispatcher struct {
	sinks   []result.EventSink
	pool    *ants.Pool
	timeout time.Duration
	logger  *logging.Logger
}

func NewDispatcher(sinks []result.EventSink, workers int, timeout time.Duration, logger *logging.Logger) (*Dispatcher, error) {
	if workers < 1 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{sinks: sinks, pool: pool, timeout: timeout, logger: logger}, nil
}

func (d *Dispatcher) Publish(ctx context.Context, event result.FixtureResult) error {
	var wg sync.WaitGroup
	for _, sink := range d.sinks {
		sink := sink
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()

			// Detached from the request context so an HTTP response going
			// out does not cancel in-flight deliveries.
			deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
			defer cancel()

			if err := sink.Publish(deliverCtx, event); err != nil {
				d.logger.WarnContext(deliverCtx, "result event delivery failed",
					"event_id", event.EventID,
					"fixture_id", event.FixtureID,
					"error", err,
				)
			}
		})
		if err != nil {
			wg.Done()
			d.logger.WarnContext(ctx, "result event worker submit failed",
				"event_id", event.EventID,
				"error", err,
			)
		}
	}
	wg.Wait()
	return nil
}

func (d *Dispatcher) Close() {
	d.pool.Release()
}
