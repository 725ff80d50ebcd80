package config

import (
	"errors"
	"fmt"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/epw-codec/internal/epw"
)

const maxWorkers = 64

// Config holds all tool settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// RowPolicy controls short data rows and missing trailing metafields.
	RowPolicy epw.RowPolicy

	// Workers bounds how many files are decoded at once.
	Workers int

	// MetricsTextfile is written in Prometheus textfile format after a run.
	// Empty disables the export.
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	policy, err := parseRowPolicy(sharedcfg.EnvOrDefault("EPW_SHORT_ROWS", "pad"))
	if err != nil {
		return nil, err
	}

	workers, err := parseWorkers(sharedcfg.EnvOrDefault("EPW_WORKERS", "4"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		RowPolicy:       policy,
		Workers:         workers,
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

func parseRowPolicy(s string) (epw.RowPolicy, error) {
	switch s {
	case "pad":
		return epw.PadShortRows, nil
	case "reject":
		return epw.RejectShortRows, nil
	default:
		return 0, fmt.Errorf("invalid EPW_SHORT_ROWS %q: want pad or reject", s)
	}
}

func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxWorkers {
		return 0, errors.New("invalid EPW_WORKERS: must be an integer between 1 and 64")
	}
	return n, nil
}
