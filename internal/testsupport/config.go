// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"lectern/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CachePath = filepath.Join(base, "cache", "translations.db")
	cfg.Gemini.APIKey = "test-key"
	cfg.Translation.TargetLanguage = "en"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTargetLanguage sets the translation target on the test config.
func WithTargetLanguage(code string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Translation.TargetLanguage = code
	}
}

// WithEnrichment enables enrichment at the given level.
func WithEnrichment(level string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Enrichment.Level = level
	}
}
