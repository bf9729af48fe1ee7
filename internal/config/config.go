package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	API      APIConfig
	Tokens   TokenStoreConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Realtime RealtimeConfig
	Tagging  TaggingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
	// RequestTimeoutSeconds bounds each view including its platform calls.
	RequestTimeoutSeconds int
}

// APIConfig points at the platform REST API.
type APIConfig struct {
	BaseURL string
}

// TokenStoreConfig selects where the bearer token is persisted.
type TokenStoreConfig struct {
	Backend string
	Key     string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig holds DB connection values for the ticket archive.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// SessionConfig drives the periodic token refresh.
type SessionConfig struct {
	RefreshSpec          string
	RefreshWindowMinutes int
}

// RealtimeConfig configures the platform WebSocket channel.
type RealtimeConfig struct {
	URL              string
	ReconnectSeconds int
}

// TaggingConfig configures tag suggestions.
type TaggingConfig struct {
	RulesFile      string
	DebounceMillis int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("TOKEN_STORE", "memory"))
	if backend != "memory" && backend != "redis" {
		return nil, fmt.Errorf("invalid TOKEN_STORE %q: want memory or redis", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "ticket-console"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),

			RequestTimeoutSeconds: getEnvAsInt("APP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000/api"),
		},
		Tokens: TokenStoreConfig{
			Backend: backend,
			Key:     getEnv("TOKEN_STORE_KEY", "ticket-console:token"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Session: SessionConfig{
			RefreshSpec:          getEnv("SESSION_REFRESH_SPEC", "@every 5m"),
			RefreshWindowMinutes: getEnvAsInt("SESSION_REFRESH_WINDOW_MINUTES", 15),
		},
		Realtime: RealtimeConfig{
			URL:              os.Getenv("REALTIME_WS_URL"),
			ReconnectSeconds: getEnvAsInt("REALTIME_RECONNECT_SECONDS", 5),
		},
		Tagging: TaggingConfig{
			RulesFile:      os.Getenv("TAG_RULES_FILE"),
			DebounceMillis: getEnvAsInt("TAG_DEBOUNCE_MILLIS", 500),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the per-view deadline, zero when disabled.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RefreshWindow returns how close to expiry a token gets refreshed.
func (s SessionConfig) RefreshWindow() time.Duration {
	if s.RefreshWindowMinutes <= 0 {
		return 0
	}
	return time.Duration(s.RefreshWindowMinutes) * time.Minute
}

// ReconnectInterval returns the pause between WebSocket reconnect attempts.
func (r RealtimeConfig) ReconnectInterval() time.Duration {
	if r.ReconnectSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.ReconnectSeconds) * time.Second
}

// Debounce returns the tag suggestion quiet period.
func (t TaggingConfig) Debounce() time.Duration {
	if t.DebounceMillis <= 0 {
		return 0
	}
	return time.Duration(t.DebounceMillis) * time.Millisecond
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
