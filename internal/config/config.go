// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Version     string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Pipeline    PipelineConfig
	Reddit      RedditConfig
	Twitter     TwitterConfig
	Render      RenderConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds the run archive configuration
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// PipelineConfig holds analysis pipeline configuration
type PipelineConfig struct {
	WorkerPoolSize int
	HeavyTimeout   time.Duration
}

// RedditConfig holds Reddit source configuration
type RedditConfig struct {
	BaseURL   string
	UserAgent string
	Sort      string
	Timeout   time.Duration
}

// TwitterConfig holds Twitter source configuration. The source is only
// registered when enabled.
type TwitterConfig struct {
	Enabled     bool
	BearerToken string
	Host        string
	Timeout     time.Duration
}

// RenderConfig holds image rendering configuration
type RenderConfig struct {
	Width  int
	Height int
}

// ConnString returns the pgx connection string for the database
func (c DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_max_conn_lifetime=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode, c.MaxOpenConns, c.MaxLifetime,
	)
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Version:     getEnv("APP_VERSION", "dev"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "socialpulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "pulse"),
		},
		Pipeline: PipelineConfig{
			WorkerPoolSize: getEnvAsInt("PIPELINE_WORKER_POOL_SIZE", 4),
			HeavyTimeout:   getEnvAsDuration("PIPELINE_HEAVY_TIMEOUT", 20*time.Second),
		},
		Reddit: RedditConfig{
			BaseURL:   getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent: getEnv("REDDIT_USER_AGENT", "socialpulse/1.0"),
			Sort:      getEnv("REDDIT_SORT", "new"),
			Timeout:   getEnvAsDuration("REDDIT_TIMEOUT", 10*time.Second),
		},
		Twitter: TwitterConfig{
			Enabled:     getEnvAsBool("TWITTER_ENABLED", false),
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			Host:        getEnv("TWITTER_HOST", "https://api.twitter.com"),
			Timeout:     getEnvAsDuration("TWITTER_TIMEOUT", 10*time.Second),
		},
		Render: RenderConfig{
			Width:  getEnvAsInt("RENDER_WIDTH", 800),
			Height: getEnvAsInt("RENDER_HEIGHT", 400),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Pipeline.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive, got %d", config.Pipeline.WorkerPoolSize)
	}
	if config.Pipeline.HeavyTimeout <= 0 {
		return fmt.Errorf("heavy job timeout must be positive, got %s", config.Pipeline.HeavyTimeout)
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", config.Server.RequestTimeout)
	}
	if config.Reddit.Timeout <= 0 {
		return fmt.Errorf("reddit timeout must be positive, got %s", config.Reddit.Timeout)
	}
	if config.Twitter.Enabled && config.Twitter.BearerToken == "" {
		return fmt.Errorf("twitter source is enabled but TWITTER_BEARER_TOKEN is not set")
	}
	if config.NATS.Enabled && config.NATS.EventsTopic == "" {
		return fmt.Errorf("events topic must be set when NATS is enabled")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
