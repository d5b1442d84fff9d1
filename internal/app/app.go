package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/matchdayhq/fixture-engine/internal/config"
	"github.com/matchdayhq/fixture-engine/internal/domain/fixture"
	"github.com/matchdayhq/fixture-engine/internal/domain/lineup"
	"github.com/matchdayhq/fixture-engine/internal/domain/matchup"
	"github.com/matchdayhq/fixture-engine/internal/domain/result"
	"github.com/matchdayhq/fixture-engine/internal/domain/round"
	"github.com/matchdayhq/fixture-engine/internal/infrastructure/account/clubhouse"
	"github.com/matchdayhq/fixture-engine/internal/infrastructure/events"
	"github.com/matchdayhq/fixture-engine/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/fixture-engine/internal/infrastructure/repository/postgres"
	"github.com/matchdayhq/fixture-engine/internal/interfaces/httpapi"
	idgen "github.com/matchdayhq/fixture-engine/internal/platform/id"
	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
	"github.com/matchdayhq/fixture-engine/internal/platform/resilience"
	"github.com/matchdayhq/fixture-engine/internal/usecase"
)

// App bundles the HTTP server with the resources that must be released on
// shutdown (database pool, NATS connection, sink worker pool).
type App struct {
	Server *http.Server

	closers []func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{}

	repos, err := a.buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	settings := engineSettings(cfg)

	sinks, err := a.buildEventSinks(cfg, logger)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	ids := idgen.NewUUIDGenerator()

	roundSvc := usecase.NewRoundService(repos.rounds, ids, settings, logger)
	fixtureSvc := usecase.NewFixtureService(repos.fixtures, repos.rounds, ids, logger)
	lineupSvc := usecase.NewLineupService(repos.fixtures, repos.rounds, repos.lineups, repos.matchups, settings, logger)
	matchupSvc := usecase.NewMatchupService(repos.fixtures, repos.rounds, repos.lineups, repos.matchups, settings, logger)
	substitutionSvc := usecase.NewSubstitutionService(repos.fixtures, repos.rounds, repos.lineups, repos.matchups, settings, logger)
	resultSvc := usecase.NewResultService(repos.fixtures, repos.rounds, repos.matchups, sinks, ids, settings, logger)

	clubhouseClient := clubhouse.NewClient(
		&http.Client{Timeout: cfg.ClubhouseTimeout},
		cfg.ClubhouseBaseURL,
		cfg.ClubhouseIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.ClubhouseCircuitEnabled,
			FailureThreshold: cfg.ClubhouseCircuitFailureCount,
			OpenTimeout:      cfg.ClubhouseCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ClubhouseCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(roundSvc, fixtureSvc, lineupSvc, matchupSvc, substitutionSvc, resultSvc, logger)
	router := httpapi.NewRouter(handler, clubhouseClient, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	if cfg.HTTPAddr == "" {
		a.closeAll()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close releases app resources in reverse construction order.
func (a *App) Close() error {
	return a.closeAll()
}

func (a *App) closeAll() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil

	return firstErr
}

type repositories struct {
	rounds   round.Repository
	fixtures fixture.Repository
	lineups  lineup.Repository
	matchups matchup.Store
}

func (a *App) buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("database disabled, using in-memory repositories with seed data")
		return seedMemoryRepositories()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, db.Close)

	return repositories{
		rounds:   postgres.NewRoundRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		lineups:  postgres.NewLineupRepository(db),
		matchups: postgres.NewMatchupStore(db),
	}, nil
}

func seedMemoryRepositories() (repositories, error) {
	ctx := context.Background()

	rounds := memory.NewRoundRepository()
	for _, item := range memory.SeedRounds() {
		if err := rounds.Upsert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed rounds: %w", err)
		}
	}

	fixtures := memory.NewFixtureRepository()
	for _, item := range memory.SeedFixtures() {
		if err := fixtures.Upsert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed fixtures: %w", err)
		}
	}

	return repositories{
		rounds:   rounds,
		fixtures: fixtures,
		lineups:  memory.NewLineupRepository(),
		matchups: memory.NewMatchupStore(),
	}, nil
}

func (a *App) buildEventSinks(cfg config.Config, logger *logging.Logger) ([]result.EventSink, error) {
	var sinks []result.EventSink

	if cfg.ResultWebhookEnabled {
		sinks = append(sinks, events.NewWebhookSink(events.WebhookSinkConfig{
			URL:       cfg.ResultWebhookURL,
			AuthToken: cfg.ResultWebhookToken,
			Retries:   cfg.ResultWebhookRetries,
			Timeout:   cfg.ResultWebhookTimeout,
			Breaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ResultWebhookCircuitEnabled,
				FailureThreshold: cfg.ResultWebhookCircuitFailure,
				OpenTimeout:      cfg.ResultWebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ResultWebhookCircuitHalfOpenMax,
			},
		}, logger))
	}

	if cfg.NATSEnabled {
		conn, err := nats.Connect(cfg.NATSURL,
			nats.Name(cfg.ServiceName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		a.closers = append(a.closers, func() error {
			conn.Close()
			return nil
		})
		sinks = append(sinks, events.NewNATSSink(conn, cfg.NATSSubject, logger))
	}

	if len(sinks) == 0 {
		return nil, nil
	}

	dispatcher, err := events.NewDispatcher(sinks, cfg.SinkWorkers, cfg.SinkTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("build event dispatcher: %w", err)
	}
	a.closers = append(a.closers, func() error {
		dispatcher.Close()
		return nil
	})

	return []result.EventSink{dispatcher}, nil
}

func engineSettings(cfg config.Config) usecase.Settings {
	offset := cfg.TZOffsetMinutes
	zone := fmt.Sprintf("UTC%+d:%02d", offset/60, abs(offset%60))

	return usecase.Settings{
		Location:               time.FixedZone(zone, offset*60),
		SquadSize:              cfg.SquadSize,
		DefaultDurationMinutes: cfg.DefaultDurationMinutes,
		DeadlineDefaults: round.DeadlineConfig{
			HomeLineupTime:  cfg.HomeLineupTime,
			AwayLineupTime:  cfg.AwayLineupTime,
			ResultDayOffset: cfg.ResultDayOffset,
			ResultTime:      cfg.ResultTime,
		},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
