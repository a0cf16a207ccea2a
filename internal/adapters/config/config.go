package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hermes/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	AI            AIConfig
	SignalSource  SignalSourceConfig
	Dispatcher    DispatcherConfig
	Strategy      StrategyConfig
	Archive       ArchiveConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"hermes"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ClickHouseConfig configures the optional event archive store.
// Archival is disabled when Host is empty.
type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"hermes"`
}

func (c ClickHouseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig configures the optional distributed rate limiter backend.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// KafkaConfig configures the optional outbound event relay.
// The relay is disabled when no brokers are configured.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type AIConfig struct {
	APIKey       string        `envconfig:"AI_API_KEY"`
	BaseURL      string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	Model        string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	Timeout      time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	ReqPerMinute float64       `envconfig:"AI_REQ_PER_MINUTE" default:"60"`
}

type SignalSourceConfig struct {
	ReqPerSecond float64       `envconfig:"SIGNAL_SOURCE_REQ_PER_SECOND" default:"5"`
	Timeout      time.Duration `envconfig:"SIGNAL_SOURCE_TIMEOUT" default:"10s"`
}

// DispatcherConfig controls the poll/deliver loops.
// Bindings is a comma-separated list of topic:consumer:handler triples; the
// default wires the research pipeline to its request topic.
type DispatcherConfig struct {
	PollInterval time.Duration `envconfig:"DISPATCHER_POLL_INTERVAL" default:"500ms"`
	BatchSize    int           `envconfig:"DISPATCHER_BATCH_SIZE" default:"50"`
	Bindings     []string      `envconfig:"DISPATCHER_BINDINGS" default:"research.requested:research-pipeline:pipeline.research"`
}

// StrategyConfig is the static strategy profile for the research pipeline.
type StrategyConfig struct {
	AllowedCategories    []string `envconfig:"STRATEGY_ALLOWED_CATEGORIES" default:"Fitness,Home,Pet,Gadgets,General"`
	ProhibitedCategories []string `envconfig:"STRATEGY_PROHIBITED_CATEGORIES" default:"weapons,medical,supplements,tobacco"`
	RiskTolerance        string   `envconfig:"STRATEGY_RISK_TOLERANCE" default:"moderate"`
	TargetMarginPercent  string   `envconfig:"STRATEGY_TARGET_MARGIN_PERCENT" default:"35"`
}

type ArchiveConfig struct {
	Retention time.Duration `envconfig:"ARCHIVE_RETENTION" default:"168h"`
	Interval  time.Duration `envconfig:"ARCHIVE_INTERVAL" default:"1h"`
	BatchSize int           `envconfig:"ARCHIVE_BATCH_SIZE" default:"500"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
