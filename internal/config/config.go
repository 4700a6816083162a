package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Messaging MessagingConfig
	Rating    RatingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// MessagingConfig configures the outbound messaging gateway.
type MessagingConfig struct {
	AccountSID             string
	AuthToken              string
	APIBaseURL             string
	FromAddress            string
	DefaultCountryCode     string
	SendTimeoutSeconds     int
	StatusPollDelaySeconds int
	OperatorAlertAddress   string
}

// RatingConfig tunes the rating collection flow.
type RatingConfig struct {
	RequestDelaySeconds int
	CacheTTLSeconds     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-notify"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Messaging: MessagingConfig{
			AccountSID:             os.Getenv("MESSAGING_ACCOUNT_SID"),
			AuthToken:              os.Getenv("MESSAGING_AUTH_TOKEN"),
			APIBaseURL:             getEnv("MESSAGING_API_BASE_URL", "https://api.twilio.com"),
			FromAddress:            getEnv("MESSAGING_FROM_ADDRESS", "whatsapp:+14155238886"),
			DefaultCountryCode:     getEnv("MESSAGING_DEFAULT_COUNTRY_CODE", "91"),
			SendTimeoutSeconds:     getEnvAsInt("MESSAGING_SEND_TIMEOUT_SECONDS", 10),
			StatusPollDelaySeconds: getEnvAsInt("MESSAGING_STATUS_POLL_DELAY_SECONDS", 10),
			OperatorAlertAddress:   os.Getenv("MESSAGING_OPERATOR_ALERT_ADDRESS"),
		},
		Rating: RatingConfig{
			RequestDelaySeconds: getEnvAsInt("RATING_REQUEST_DELAY_SECONDS", 5),
			CacheTTLSeconds:     getEnvAsInt("RATING_CACHE_TTL_SECONDS", 3600),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SendTimeout bounds a single outbound send call.
func (m MessagingConfig) SendTimeout() time.Duration {
	if m.SendTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.SendTimeoutSeconds) * time.Second
}

// StatusPollDelay is the wait before the post-send delivery status check.
func (m MessagingConfig) StatusPollDelay() time.Duration {
	if m.StatusPollDelaySeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.StatusPollDelaySeconds) * time.Second
}

// RequestDelay is the wait before the follow-up rating request fires.
func (r RatingConfig) RequestDelay() time.Duration {
	if r.RequestDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.RequestDelaySeconds) * time.Second
}

// CacheTTL bounds the lifetime of cached rating existence flags.
func (r RatingConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
