package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Data source: a local CSV path or an http(s) URL.
	DataSource      string
	SourceTimeout   time.Duration
	RefreshInterval time.Duration // 0 disables background refresh
	Level2MinYear   int

	RenderCacheSize int
	LayoutFile      string

	// Kafka aggregate publishing.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaAggregateTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SOURCE_TIMEOUT", "10s"))
	if err != nil || sourceTimeout <= 0 {
		return nil, errors.New("invalid SOURCE_TIMEOUT")
	}

	refreshInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_INTERVAL", "0s"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	minYear, err := parsePositiveInt("LEVEL2_MIN_YEAR", 2008)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("RENDER_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataSource:      sharedcfg.EnvOrDefault("DATA_SOURCE", "temperature_daily.csv"),
		SourceTimeout:   sourceTimeout,
		RefreshInterval: refreshInterval,
		Level2MinYear:   minYear,

		RenderCacheSize: cacheSize,
		LayoutFile:      os.Getenv("LAYOUT_FILE"),

		KafkaEnabled:        os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAggregateTopic: sharedcfg.EnvOrDefault("KAFKA_AGGREGATE_TOPIC", "temperature-month-aggregates"),
	}

	if cfg.DataSource == "" {
		return nil, errors.New("DATA_SOURCE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaAggregateTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_AGGREGATE_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
