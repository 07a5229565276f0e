package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VerifierProfile is an optional YAML overlay for a verifier deployment.
// Fields left empty keep the environment-derived value.
type VerifierProfile struct {
	VerifierID       string `yaml:"verifier_id"`
	DatabasePath     string `yaml:"database_path"`
	LogLevel         string `yaml:"log_level"`
	MinimumVerifiers int    `yaml:"minimum_verifiers"`
	OTLPEndpoint     string `yaml:"otlp_endpoint"`
}

// LoadProfile parses a verifier profile from a YAML file.
func LoadProfile(path string) (*VerifierProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p VerifierProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.MinimumVerifiers < 0 {
		return nil, fmt.Errorf("profile %s: minimum_verifiers must not be negative", path)
	}
	return &p, nil
}

// Apply overlays non-empty profile fields onto cfg.
func (p *VerifierProfile) Apply(cfg *Config) {
	if p == nil {
		return
	}
	if p.VerifierID != "" {
		cfg.VerifierID = p.VerifierID
	}
	if p.DatabasePath != "" {
		cfg.DatabasePath = p.DatabasePath
	}
	if p.LogLevel != "" {
		cfg.LogLevel = p.LogLevel
	}
	if p.MinimumVerifiers > 0 {
		cfg.MinimumVerifiers = p.MinimumVerifiers
	}
	if p.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = p.OTLPEndpoint
		cfg.TelemetryEnabled = true
	}
}
