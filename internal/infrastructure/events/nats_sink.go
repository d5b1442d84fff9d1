package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"

	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

const DefaultResultSubject = "fixture.result.finalized"

// NATSSink publishes finalized results onto a NATS subject. The event id
// rides along as the message id so JetStream consumers can deduplicate
// re-entered results.
type NATSSink struct {
	conn    *nats.Conn
	subject string
	logger  *logging.Logger
}

func NewNATSSink(conn *nats.Conn, subject string, logger *logging.Logger) *NATSSink {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultResultSubject
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NATSSink{conn: conn, subject: subject, logger: logger}
}

func (s *NATSSink) Publish(ctx context.Context, event result.FixtureResult) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal result event: %w", err)
	}

	msg := nats.NewMsg(s.subject)
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, event.EventID)

	if err := s.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish result event to %s: %w", s.subject, err)
	}

	s.logger.DebugContext(ctx, "result event published",
		"subject", s.subject,
		"event_id", event.EventID,
		"fixture_id", event.FixtureID,
	)
	return nil
}
