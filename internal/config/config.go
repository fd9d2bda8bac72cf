package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// Hourly table sources.
const (
	SourceHTML = "html"
	SourceAPI  = "api"
)

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	CatalogPath     string
	CatalogEncoding string

	// FetchSource selects where hourly tables come from: saved pages in
	// RawTableDir, or the INMET API.
	FetchSource     string
	RawTableDir     string
	InmetAPIURL     string
	InmetAPIToken   string
	InmetAPITimeout time.Duration
	InmetAPIRetries int

	StoreBackend string
	SeriesPath   string
	SQLitePath   string
	MergeMode    domain.MergeMode

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// StatusAddr enables the run status HTTP server when set.
	StatusAddr      string
	ShutdownTimeout time.Duration

	// Kafka publishing of merged daily rows; disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	mergeMode, err := domain.ParseMergeMode(sharedcfg.EnvOrDefault("MERGE_MODE", string(domain.MergeAppend)))
	if err != nil {
		return nil, fmt.Errorf("invalid MERGE_MODE: %w", err)
	}

	apiTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("INMET_API_TIMEOUT", "60s"))
	if err != nil || apiTimeout <= 0 {
		return nil, errors.New("invalid INMET_API_TIMEOUT: must be a positive duration")
	}
	apiRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("INMET_API_RETRIES", "0"))
	if err != nil || apiRetries < 0 || apiRetries > 10 {
		return nil, errors.New("invalid INMET_API_RETRIES: must be 0-10")
	}
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if s := strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}

	cfg := &Config{
		CatalogPath:     sharedcfg.EnvOrDefault("CATALOG_PATH", "CatalogoEstacoesAutomaticas.csv"),
		CatalogEncoding: strings.ToLower(sharedcfg.EnvOrDefault("CATALOG_ENCODING", "utf-8")),
		FetchSource:     strings.ToLower(sharedcfg.EnvOrDefault("FETCH_SOURCE", SourceHTML)),
		RawTableDir:     sharedcfg.EnvOrDefault("RAW_TABLE_DIR", "tables"),
		InmetAPIURL:     sharedcfg.EnvOrDefault("INMET_API_URL", "https://apitempo.inmet.gov.br"),
		InmetAPIToken:   sharedcfg.EnvOrDefault("INMET_API_TOKEN", ""),
		InmetAPITimeout: apiTimeout,
		InmetAPIRetries: apiRetries,
		StoreBackend:    strings.ToLower(sharedcfg.EnvOrDefault("STORE_BACKEND", BackendCSV)),
		SeriesPath:      sharedcfg.EnvOrDefault("SERIES_PATH", "final_inmet_data.csv"),
		SQLitePath:      sharedcfg.EnvOrDefault("SQLITE_PATH", "inmet.db"),
		MergeMode:       mergeMode,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		StatusAddr:      sharedcfg.EnvOrDefault("STATUS_ADDR", ""),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "inmet-daily-records"),
	}

	switch cfg.StoreBackend {
	case BackendCSV:
		if cfg.SeriesPath == "" {
			return nil, errors.New("SERIES_PATH is required")
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH is required")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want csv or sqlite)", cfg.StoreBackend)
	}
	if cfg.FetchSource != SourceHTML && cfg.FetchSource != SourceAPI {
		return nil, fmt.Errorf("invalid FETCH_SOURCE %q (want html or api)", cfg.FetchSource)
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("CATALOG_PATH is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", cfg.LogFormat)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether merged rows should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
