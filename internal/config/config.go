package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchdayhq/fixture-engine/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// DBURL empty selects the in-memory repositories with seed data.
	DBURL                   string
	DBDisablePreparedBinary bool

	CORSAllowedOrigins []string
	AdminToken         string

	TZOffsetMinutes        int
	SquadSize              int
	DefaultDurationMinutes int
	HomeLineupTime         string
	AwayLineupTime         string
	ResultDayOffset        int
	ResultTime             string

	ClubhouseBaseURL               string
	ClubhouseIntrospectPath        string
	ClubhouseTimeout               time.Duration
	ClubhouseCircuitEnabled        bool
	ClubhouseCircuitFailureCount   int
	ClubhouseCircuitOpenTimeout    time.Duration
	ClubhouseCircuitHalfOpenMaxReq int

	ResultWebhookEnabled            bool
	ResultWebhookURL                string
	ResultWebhookToken              string
	ResultWebhookRetries            int
	ResultWebhookTimeout            time.Duration
	ResultWebhookCircuitEnabled     bool
	ResultWebhookCircuitFailure     int
	ResultWebhookCircuitOpenTimeout time.Duration
	ResultWebhookCircuitHalfOpenMax int

	NATSEnabled bool
	NATSURL     string
	NATSSubject string

	SinkWorkers int
	SinkTimeout time.Duration

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	tzOffsetMinutes, err := getEnvAsInt("TZ_OFFSET_MINUTES", 330)
	if err != nil {
		return Config{}, fmt.Errorf("parse TZ_OFFSET_MINUTES: %w", err)
	}
	if tzOffsetMinutes < -14*60 || tzOffsetMinutes > 14*60 {
		return Config{}, fmt.Errorf("TZ_OFFSET_MINUTES must be between -840 and 840")
	}
	squadSize, err := getEnvAsInt("SQUAD_SIZE", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SQUAD_SIZE: %w", err)
	}
	if squadSize < 1 {
		return Config{}, fmt.Errorf("SQUAD_SIZE must be >= 1")
	}
	defaultDuration, err := getEnvAsInt("DEFAULT_MATCH_DURATION_MINUTES", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_MATCH_DURATION_MINUTES: %w", err)
	}
	if defaultDuration < 1 {
		return Config{}, fmt.Errorf("DEFAULT_MATCH_DURATION_MINUTES must be >= 1")
	}
	homeLineupTime := strings.TrimSpace(getEnv("DEADLINE_HOME_LINEUP_TIME", "17:00"))
	if err := validateClockTime(homeLineupTime); err != nil {
		return Config{}, fmt.Errorf("parse DEADLINE_HOME_LINEUP_TIME: %w", err)
	}
	awayLineupTime := strings.TrimSpace(getEnv("DEADLINE_AWAY_LINEUP_TIME", "17:00"))
	if err := validateClockTime(awayLineupTime); err != nil {
		return Config{}, fmt.Errorf("parse DEADLINE_AWAY_LINEUP_TIME: %w", err)
	}
	resultDayOffset, err := getEnvAsInt("DEADLINE_RESULT_DAY_OFFSET", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEADLINE_RESULT_DAY_OFFSET: %w", err)
	}
	if resultDayOffset < 1 {
		return Config{}, fmt.Errorf("DEADLINE_RESULT_DAY_OFFSET must be >= 1")
	}
	resultTime := strings.TrimSpace(getEnv("DEADLINE_RESULT_TIME", "00:30"))
	if err := validateClockTime(resultTime); err != nil {
		return Config{}, fmt.Errorf("parse DEADLINE_RESULT_TIME: %w", err)
	}

	clubhouseTimeout, err := time.ParseDuration(getEnv("CLUBHOUSE_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLUBHOUSE_TIMEOUT: %w", err)
	}
	clubhouseCircuitEnabled, err := strconv.ParseBool(getEnv("CLUBHOUSE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLUBHOUSE_CIRCUIT_ENABLED: %w", err)
	}
	clubhouseCircuitFailureCount, err := getEnvAsInt("CLUBHOUSE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLUBHOUSE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if clubhouseCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CLUBHOUSE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	clubhouseCircuitOpenTimeout, err := time.ParseDuration(getEnv("CLUBHOUSE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLUBHOUSE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if clubhouseCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CLUBHOUSE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	clubhouseCircuitHalfOpenMaxReq, err := getEnvAsInt("CLUBHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLUBHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if clubhouseCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CLUBHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	webhookEnabled, err := strconv.ParseBool(getEnv("RESULT_WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_ENABLED: %w", err)
	}
	webhookURL := strings.TrimSpace(getEnv("RESULT_WEBHOOK_URL", ""))
	if webhookEnabled && webhookURL == "" {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_URL is required when RESULT_WEBHOOK_ENABLED=true")
	}
	webhookRetries, err := getEnvAsInt("RESULT_WEBHOOK_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_RETRIES: %w", err)
	}
	if webhookRetries < 0 {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_RETRIES must be >= 0")
	}
	webhookTimeout, err := time.ParseDuration(getEnv("RESULT_WEBHOOK_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_TIMEOUT: %w", err)
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_TIMEOUT must be > 0")
	}
	webhookCircuitEnabled, err := strconv.ParseBool(getEnv("RESULT_WEBHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_CIRCUIT_ENABLED: %w", err)
	}
	webhookCircuitFailureCount, err := getEnvAsInt("RESULT_WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if webhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	webhookCircuitOpenTimeout, err := time.ParseDuration(getEnv("RESULT_WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if webhookCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	webhookCircuitHalfOpenMaxReq, err := getEnvAsInt("RESULT_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if webhookCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("RESULT_WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	natsEnabled, err := strconv.ParseBool(getEnv("NATS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NATS_ENABLED: %w", err)
	}
	natsURL := strings.TrimSpace(getEnv("NATS_URL", "nats://localhost:4222"))
	if natsEnabled && natsURL == "" {
		return Config{}, fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	natsSubject := strings.TrimSpace(getEnv("NATS_RESULT_SUBJECT", "fixture.result.finalized"))
	if natsEnabled && natsSubject == "" {
		return Config{}, fmt.Errorf("NATS_RESULT_SUBJECT is required when NATS_ENABLED=true")
	}

	sinkWorkers, err := getEnvAsInt("EVENT_SINK_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse EVENT_SINK_WORKERS: %w", err)
	}
	if sinkWorkers < 1 {
		return Config{}, fmt.Errorf("EVENT_SINK_WORKERS must be >= 1")
	}
	sinkTimeout, err := time.ParseDuration(getEnv("EVENT_SINK_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EVENT_SINK_TIMEOUT: %w", err)
	}
	if sinkTimeout <= 0 {
		return Config{}, fmt.Errorf("EVENT_SINK_TIMEOUT must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg := Config{
		AppEnv:                          appEnv,
		ServiceName:                     getEnv("APP_SERVICE_NAME", "fixture-engine-api"),
		ServiceVersion:                  getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                        getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                     readTimeout,
		WriteTimeout:                    writeTimeout,
		DBURL:                           strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:         dbDisablePreparedBinary,
		CORSAllowedOrigins:              splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:                      strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
		TZOffsetMinutes:                 tzOffsetMinutes,
		SquadSize:                       squadSize,
		DefaultDurationMinutes:          defaultDuration,
		HomeLineupTime:                  homeLineupTime,
		AwayLineupTime:                  awayLineupTime,
		ResultDayOffset:                 resultDayOffset,
		ResultTime:                      resultTime,
		ClubhouseBaseURL:                getEnv("CLUBHOUSE_BASE_URL", "http://localhost:8081"),
		ClubhouseIntrospectPath:         getEnv("CLUBHOUSE_INTROSPECT_PATH", "/v1/auth/introspect"),
		ClubhouseTimeout:                clubhouseTimeout,
		ClubhouseCircuitEnabled:         clubhouseCircuitEnabled,
		ClubhouseCircuitFailureCount:    clubhouseCircuitFailureCount,
		ClubhouseCircuitOpenTimeout:     clubhouseCircuitOpenTimeout,
		ClubhouseCircuitHalfOpenMaxReq:  clubhouseCircuitHalfOpenMaxReq,
		ResultWebhookEnabled:            webhookEnabled,
		ResultWebhookURL:                webhookURL,
		ResultWebhookToken:              strings.TrimSpace(getEnv("RESULT_WEBHOOK_TOKEN", "")),
		ResultWebhookRetries:            webhookRetries,
		ResultWebhookTimeout:            webhookTimeout,
		ResultWebhookCircuitEnabled:     webhookCircuitEnabled,
		ResultWebhookCircuitFailure:     webhookCircuitFailureCount,
		ResultWebhookCircuitOpenTimeout: webhookCircuitOpenTimeout,
		ResultWebhookCircuitHalfOpenMax: webhookCircuitHalfOpenMaxReq,
		NATSEnabled:                     natsEnabled,
		NATSURL:                         natsURL,
		NATSSubject:                     natsSubject,
		SinkWorkers:                     sinkWorkers,
		SinkTimeout:                     sinkTimeout,
		PprofEnabled:                    pprofEnabled,
		PprofAddr:                       pprofAddr,
		PyroscopeEnabled:                pyroscopeEnabled,
		PyroscopeServerAddress:          pyroscopeServerAddress,
		PyroscopeAuthToken:              strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:          strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:             pyroscopeUploadRate,
		UptraceEnabled:                  uptraceEnabled,
		UptraceDSN:                      uptraceDSN,
		LogLevel:                        logLevel,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func validateClockTime(v string) error {
	if _, err := time.Parse("15:04", v); err != nil {
		return fmt.Errorf("invalid clock time %q, expected HH:MM", v)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
