package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Postgres persistence. When disabled the API serves the built-in
	// catalog and synthetic history instead.
	DatabaseURL     string
	DatabaseEnabled bool

	// Gemini advisory configuration.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiEnabled bool
	GeminiTimeout time.Duration

	// Kafka result event publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// EngineSeed fixes the estimation jitter stream; 0 seeds from the
	// wall clock at startup.
	EngineSeed int64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	geminiTimeout, err := parseDuration("GEMINI_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	engineSeed, err := parseEngineSeed()
	if err != nil {
		return nil, err
	}

	databaseURL := os.Getenv("DATABASE_URL")
	databaseEnabled := databaseURL != ""
	if v := os.Getenv("DATABASE_ENABLED"); v != "" {
		databaseEnabled = v == "true"
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	geminiEnabled := geminiKey != ""
	if v := os.Getenv("GEMINI_ENABLED"); v != "" {
		geminiEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		DatabaseURL:     databaseURL,
		DatabaseEnabled: databaseEnabled,

		GeminiAPIKey:  geminiKey,
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEnabled: geminiEnabled,
		GeminiTimeout: geminiTimeout,

		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "scenario-predictions"),
		KafkaEnabled: kafkaEnabled,

		EngineSeed: engineSeed,
	}

	if cfg.DatabaseEnabled && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_ENABLED is true but DATABASE_URL is not set")
	}
	if cfg.GeminiEnabled && cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_ENABLED is true but GEMINI_API_KEY is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// String renders the configuration for startup logs. Credentials stay out.
func (c *Config) String() string {
	return fmt.Sprintf("addr=%s db_enabled=%t gemini_enabled=%t gemini_model=%s kafka_enabled=%t kafka_topic=%s",
		c.HTTPAddr, c.DatabaseEnabled, c.GeminiEnabled, c.GeminiModel, c.KafkaEnabled, c.KafkaTopic)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseEngineSeed() (int64, error) {
	s := os.Getenv("ENGINE_SEED")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ENGINE_SEED: %q", s)
	}
	return n, nil
}
