package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/haimng/Bestopia/pkg/config"
)

// Config holds all configuration for the Bestopia server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Public origin used for absolute links in the sitemap.
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"https://bestopia.net"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"bestopia"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"bestopia_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"bestopia_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	SlowQueryThresholdMs int `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Redis (review/sitemap cache). Leave the host empty to run without the
	// cache.
	RedisHost     string        `env:"REDIS_HOST" envDefault:""`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	// Kafka. Leave brokers empty to run without domain events.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// External collaborators. Empty tokens disable the feature.
	CrawlerAPIToken string `env:"CRAWLER_API_TOKEN" envDefault:""`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY" envDefault:""`

	// Seeded reviewer identity pools.
	ReviewerWomanIDs []int64 `env:"REVIEWER_WOMAN_IDS" envDefault:"2,3,4,5,6,7" envSeparator:","`
	ReviewerManIDs   []int64 `env:"REVIEWER_MAN_IDS" envDefault:"8,9,10,11" envSeparator:","`

	// OpenTelemetry tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CIDRs allowed to reach the pprof endpoints.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
}

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Environment == "production" || c.Environment == "staging" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set in %s", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in %s", c.Environment)
		}
	}
	if len(c.ReviewerWomanIDs) == 0 || len(c.ReviewerManIDs) == 0 {
		return fmt.Errorf("reviewer id pools must not be empty")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
