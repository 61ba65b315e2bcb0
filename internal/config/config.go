package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the full client configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service" envPrefix:"SERVICE_"`
	Mastery    MasteryConfig    `yaml:"mastery" envPrefix:"MASTERY_"`
	Confidence ConfidenceConfig `yaml:"confidence" envPrefix:"CONFIDENCE_"`
	Features   FeatureConfig    `yaml:"features" envPrefix:"FEATURE_"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envPrefix:"OTEL_"`
	Materials  MaterialsConfig  `yaml:"materials" envPrefix:"MATERIALS_"`
}

// ServiceConfig locates the tutoring service.
type ServiceConfig struct {
	BaseURL  string        `yaml:"base_url" env:"URL"`
	CourseID string        `yaml:"course_id" env:"COURSE_ID"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	Retry    RetryConfig   `yaml:"retry" envPrefix:"RETRY_"`
}

// RetryConfig configures retries of transient service failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
	InitialWait time.Duration `yaml:"initial_wait" env:"INITIAL_WAIT"`
	MaxWait     time.Duration `yaml:"max_wait" env:"MAX_WAIT"`
	Multiplier  float64       `yaml:"multiplier" env:"MULTIPLIER"`
}

// MasteryConfig overrides the mastery defaults.
type MasteryConfig struct {
	Threshold      float64 `yaml:"threshold" env:"THRESHOLD"`
	MinAssessments int     `yaml:"min_assessments" env:"MIN_ASSESSMENTS"`
}

// ConfidenceConfig selects the confidence rating scale.
type ConfidenceConfig struct {
	Scale int `yaml:"scale" env:"SCALE"`
}

// FeatureConfig toggles optional session behaviors.
type FeatureConfig struct {
	PreviewChoice bool `yaml:"preview_choice" env:"PREVIEW_CHOICE"`
	Confidence    bool `yaml:"confidence" env:"CONFIDENCE"`
	MasteryBar    bool `yaml:"mastery_bar" env:"MASTERY_BAR"`
}

// StorageConfig locates the local database.
type StorageConfig struct {
	// DBPath is resolved by the store when empty.
	DBPath string `yaml:"db_path" env:"DB"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	// File defaults to latintutor.log in the data directory.
	File string `yaml:"file" env:"FILE"`
}

// TelemetryConfig controls OTLP trace export. Tracing is off unless an
// endpoint is set.
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
}

// MaterialsConfig locates the materials manifest.
type MaterialsConfig struct {
	Manifest string `yaml:"manifest" env:"MANIFEST"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:  "http://localhost:8000/api",
			CourseID: "latin-grammar",
			Timeout:  60 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				InitialWait: 500 * time.Millisecond,
				MaxWait:     5 * time.Second,
				Multiplier:  2.0,
			},
		},
		Mastery: MasteryConfig{
			Threshold:      0.85,
			MinAssessments: 3,
		},
		Confidence: ConfidenceConfig{Scale: 5},
		Features: FeatureConfig{
			PreviewChoice: true,
			Confidence:    true,
			MasteryBar:    true,
		},
		Log:       LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{Enabled: true},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service.base_url %q is not an absolute URL", c.Service.BaseURL)
	}
	if strings.TrimSpace(c.Service.CourseID) == "" {
		return fmt.Errorf("service.course_id is required")
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout must not be negative")
	}
	if c.Service.Retry.MaxAttempts < 1 {
		return fmt.Errorf("service.retry.max_attempts must be at least 1")
	}
	if c.Mastery.Threshold <= 0 || c.Mastery.Threshold > 1 {
		return fmt.Errorf("mastery.threshold must be in (0, 1], got %v", c.Mastery.Threshold)
	}
	if c.Mastery.MinAssessments < 1 {
		return fmt.Errorf("mastery.min_assessments must be at least 1")
	}
	if c.Confidence.Scale != 4 && c.Confidence.Scale != 5 {
		return fmt.Errorf("confidence.scale must be 4 or 5, got %d", c.Confidence.Scale)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
