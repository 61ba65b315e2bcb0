package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := NewLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.85, cfg.Mastery.Threshold)
	assert.Equal(t, 3, cfg.Mastery.MinAssessments)
	assert.Equal(t, 5, cfg.Confidence.Scale)
	assert.True(t, cfg.Features.PreviewChoice)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
service:
  base_url: https://tutor.example.org/api
  timeout: 15s
  retry:
    max_attempts: 5
mastery:
  threshold: 0.9
confidence:
  scale: 4
features:
  preview_choice: false
`)
	cfg, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tutor.example.org/api", cfg.Service.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Service.Timeout)
	assert.Equal(t, 5, cfg.Service.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Service.Retry.InitialWait, "unset keys keep defaults")
	assert.Equal(t, 0.9, cfg.Mastery.Threshold)
	assert.Equal(t, 4, cfg.Confidence.Scale)
	assert.False(t, cfg.Features.PreviewChoice)
	assert.True(t, cfg.Features.Confidence)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "service:\n  course_id: from-file\n")
	t.Setenv("LATINTUTOR_SERVICE_COURSE_ID", "from-env")
	t.Setenv("LATINTUTOR_MASTERY_MIN_ASSESSMENTS", "5")
	t.Setenv("LATINTUTOR_FEATURE_CONFIDENCE", "false")
	t.Setenv("LATINTUTOR_DB", "/tmp/tutor.db")
	t.Setenv("LATINTUTOR_OTEL_ENDPOINT", "http://localhost:4318")

	cfg, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Service.CourseID)
	assert.Equal(t, 5, cfg.Mastery.MinAssessments)
	assert.False(t, cfg.Features.Confidence)
	assert.Equal(t, "/tmp/tutor.db", cfg.Storage.DBPath)
	assert.Equal(t, "http://localhost:4318", cfg.Telemetry.Endpoint)
}

func TestLoad_UserConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, UserConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, UserConfigFile), []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := NewLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	_, err = NewLoader(nil).Load(writeConfig(t, "service: [unclosed"))
	assert.Error(t, err, "malformed yaml")

	_, err = NewLoader(nil).Load(writeConfig(t, "mastery:\n  threshold: 1.5\n"))
	assert.Error(t, err, "threshold out of range")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.Service.BaseURL = "/api" }},
		{"empty course", func(c *Config) { c.Service.CourseID = " " }},
		{"zero attempts", func(c *Config) { c.Service.Retry.MaxAttempts = 0 }},
		{"zero threshold", func(c *Config) { c.Mastery.Threshold = 0 }},
		{"zero min assessments", func(c *Config) { c.Mastery.MinAssessments = 0 }},
		{"scale three", func(c *Config) { c.Confidence.Scale = 3 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
