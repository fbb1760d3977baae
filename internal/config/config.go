package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenCage geocoding configuration.
	OpenCageAPIKey  string
	OpenCageBaseURL string
	OpenCageTimeout time.Duration

	// In-process cache in front of the provider.
	GeocodeCacheSize int
	GeocodeCacheTTL  time.Duration

	// Optional shared cache; empty RedisURL disables it.
	RedisURL      string
	RedisCacheTTL time.Duration

	// Batch geocoding pipeline.
	PipelineEnabled    bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// LocaleFile optionally overrides the built-in heuristic tables.
	LocaleFile string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory, when present, seeds variables
// that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	openCageTimeout, err := parsePositiveDuration("OPENCAGE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("GEOCODE_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	redisTTL, err := parsePositiveDuration("REDIS_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	pipelineEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("PIPELINE_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid PIPELINE_ENABLED")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenCageAPIKey:  os.Getenv("OPENCAGE_API_KEY"),
		OpenCageBaseURL: sharedcfg.EnvOrDefault("OPENCAGE_BASE_URL", "https://api.opencagedata.com/geocode/v1/json"),
		OpenCageTimeout: openCageTimeout,

		GeocodeCacheSize: cacheSize,
		GeocodeCacheTTL:  cacheTTL,

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisCacheTTL: redisTTL,

		PipelineEnabled:    pipelineEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "geocode-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "geocode-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "weather-geocoder"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		LocaleFile: os.Getenv("LOCALE_FILE"),
	}

	if cfg.OpenCageAPIKey == "" {
		return nil, errors.New("OPENCAGE_API_KEY is required")
	}
	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when PIPELINE_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when PIPELINE_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when PIPELINE_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
