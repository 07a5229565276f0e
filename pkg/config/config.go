// Package config loads veristate configuration from environment variables,
// optionally overlaid with a YAML verifier profile.
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds CLI and verifier-process configuration. The verification
// core itself is configuration-free; these knobs only shape the surrounding
// tooling.
type Config struct {
	VerifierID       string
	DatabasePath     string
	LogLevel         string
	MinimumVerifiers int

	// Telemetry is opt-in; the verification paths stay network-free unless
	// an operator sets an endpoint.
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load reads configuration from environment variables with defaults. When
// VERISTATE_PROFILE names a YAML verifier profile, its non-empty fields
// overlay the environment-derived values; a profile that cannot be loaded
// is logged and skipped rather than aborting the process.
func Load() *Config {
	verifierID := os.Getenv("VERISTATE_VERIFIER_ID")
	if verifierID == "" {
		if host, err := os.Hostname(); err == nil {
			verifierID = "verifier-" + host
		} else {
			verifierID = "verifier-local"
		}
	}

	dbPath := os.Getenv("VERISTATE_DB")
	if dbPath == "" {
		dbPath = "veristate.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	minVerifiers := 1
	if raw := os.Getenv("VERISTATE_MIN_VERIFIERS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			minVerifiers = n
		}
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	cfg := &Config{
		VerifierID:       verifierID,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		MinimumVerifiers: minVerifiers,
		TelemetryEnabled: endpoint != "",
		OTLPEndpoint:     endpoint,
	}

	if path := os.Getenv("VERISTATE_PROFILE"); path != "" {
		profile, err := LoadProfile(path)
		if err != nil {
			slog.Warn("ignoring verifier profile", "path", path, "error", err)
		} else {
			profile.Apply(cfg)
		}
	}

	return cfg
}
