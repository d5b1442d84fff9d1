package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
	"github.com/matchdayhq/fixture-engine/internal/platform/resilience"
)

type WebhookSinkConfig struct {
	URL       string
	AuthToken string
	Retries   int
	Timeout   time.Duration
	Breaker   resilience.CircuitBreakerConfig
}

// WebhookSink delivers finalized results to an external HTTP endpoint. The
// receiver deduplicates on the event_id header, so retries are safe.
type WebhookSink struct {
	client    *http.Client
	url       string
	authToken string
	retries   int
	breaker   *resilience.CircuitBreaker
	logger    *logging.Logger
}

func NewWebhookSink(cfg WebhookSinkConfig, logger *logging.Logger) *WebhookSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breaker := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
	return &WebhookSink{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		url:       strings.TrimSpace(cfg.URL),
		authToken: strings.TrimSpace(cfg.AuthToken),
		retries:   cfg.Retries,
		breaker:   resilience.NewCircuitBreaker(breaker.FailureThreshold, breaker.OpenTimeout, breaker.HalfOpenMaxReq),
		logger:    logger,
	}
}

func (s *WebhookSink) Publish(ctx context.Context, event result.FixtureResult) error {
	if s.url == "" {
		return errors.New("webhook url is not configured")
	}
	if err := s.breaker.Allow(); err != nil {
		return fmt.Errorf("webhook delivery blocked: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	body, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal result event: %w", err)
	}
	if _, err := buf.Write(body); err != nil {
		return fmt.Errorf("buffer result event: %w", err)
	}

	var lastErr error
	attempts := s.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		lastErr = s.send(ctx, event.EventID, buf.Bytes())
		if lastErr == nil {
			s.breaker.RecordSuccess()
			return nil
		}
		s.logger.WarnContext(ctx, "webhook delivery attempt failed",
			"event_id", event.EventID,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	s.breaker.RecordFailure()
	return fmt.Errorf("deliver result webhook after %d attempts: %w", attempts, lastErr)
}

func (s *WebhookSink) send(ctx context.Context, eventID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Id", eventID)
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf("webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
