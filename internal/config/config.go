package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the hotline.
type Config struct {
	App          AppConfig
	Engine       EngineConfig
	Telephony    TelephonyConfig
	Session      SessionConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Knowledge    KnowledgeConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
	// RequestTimeout bounds operator HTTP requests, not call streams.
	RequestTimeout time.Duration
}

// EngineConfig points at the speech/reasoning engine endpoint.
type EngineConfig struct {
	URL            string
	APIKey         string
	PromptFile     string
	ConnectTimeout time.Duration
}

// TelephonyConfig fixes the audio framing of the telephony leg.
type TelephonyConfig struct {
	SampleRate  int
	ChunkMillis int
}

// BytesPerChunk returns the inbound frame size forwarded to the engine.
// One byte per sample for 8 kHz mu-law audio.
func (t TelephonyConfig) BytesPerChunk() int {
	return t.SampleRate * t.ChunkMillis / 1000
}

// SessionConfig tunes per-call behavior.
type SessionConfig struct {
	VerifyRetryLimit int
	FillerMessage    string
}

// StoreConfig selects the Directory Store backend.
type StoreConfig struct {
	Driver      string // "memory" or "postgres"
	TenantsFile string
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

// AuthConfig defines operator API authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	OperatorName          string
	OperatorPasswordHash  string
}

// KnowledgeConfig locates the policy documents surfaced to the engine.
type KnowledgeConfig struct {
	Dir string
}

// NotificationConfig routes ticket events to operator tooling.
type NotificationConfig struct {
	RedisChannel string
	WebhookURL   string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "complaint-hotline"),
			Env:            getEnv("APP_ENV", "development"),
			Host:           getEnv("APP_HOST", "0.0.0.0"),
			Port:           getEnv("APP_PORT", "5000"),
			Version:        getEnv("APP_VERSION", "dev"),
			RequestTimeout: time.Duration(getEnvAsInt("APP_REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Engine: EngineConfig{
			URL:            getEnv("ENGINE_URL", "wss://agent.deepgram.com/agent"),
			APIKey:         os.Getenv("ENGINE_API_KEY"),
			PromptFile:     getEnv("ENGINE_PROMPT_FILE", ""),
			ConnectTimeout: time.Duration(getEnvAsInt("ENGINE_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Telephony: TelephonyConfig{
			SampleRate:  getEnvAsInt("TELEPHONY_SAMPLE_RATE", 8000),
			ChunkMillis: getEnvAsInt("TELEPHONY_CHUNK_MS", 20),
		},
		Session: SessionConfig{
			VerifyRetryLimit: getEnvAsInt("SESSION_VERIFY_RETRY_LIMIT", 3),
			FillerMessage:    getEnv("SESSION_FILLER_MESSAGE", "One moment while I look that up."),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "memory"),
			TenantsFile: getEnv("STORE_TENANTS_FILE", ""),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			OperatorName:          getEnv("AUTH_OPERATOR_NAME", "operator"),
			OperatorPasswordHash:  os.Getenv("AUTH_OPERATOR_PASSWORD_HASH"),
		},
		Knowledge: KnowledgeConfig{
			Dir: getEnv("KNOWLEDGE_DIR", "knowledge_base"),
		},
		Notification: NotificationConfig{
			RedisChannel: getEnv("NOTIFY_REDIS_CHANNEL", "hotline:ticket-events"),
			WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Store.Driver != "memory" && cfg.Store.Driver != "postgres" {
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.Store.Driver)
	}
	if cfg.Store.Driver == "postgres" && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
	}
	if cfg.Session.VerifyRetryLimit <= 0 {
		cfg.Session.VerifyRetryLimit = 3
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
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
