package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style != "engaging" {
		t.Fatalf("unexpected default style: %q", cfg.Style)
	}
	if cfg.Enrichment.Level != "off" {
		t.Fatalf("unexpected default enrichment level: %q", cfg.Enrichment.Level)
	}
	if cfg.TargetLanguage != "en" {
		t.Fatalf("unexpected default target language: %q", cfg.TargetLanguage)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 || cfg.FPS != 24 {
		t.Fatalf("unexpected video defaults: %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[narration]
style = " Professional "

[translation]
target_language = "DE"

[speech]
voice_engine = "free"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style != "professional" {
		t.Fatalf("style not normalized: %q", cfg.Style)
	}
	if cfg.TargetLanguage != "de" {
		t.Fatalf("target language not normalized: %q", cfg.TargetLanguage)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad sdk", func(c *Config) { c.SDK = "v9" }, "gemini.sdk"},
		{"bad level", func(c *Config) { c.Enrichment.Level = "extreme" }, "enrichment.level"},
		{"bad engine", func(c *Config) { c.VoiceEngine = "shout" }, "voice_engine"},
		{"premium without key", func(c *Config) { c.VoiceEngine = "premium" }, "google_api_key"},
		{"enrichment without key", func(c *Config) { c.Enrichment.Level = "normal" }, "gemini.api_key"},
		{"empty target", func(c *Config) { c.TargetLanguage = "" }, "target_language"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Normalize()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEnvOverrideWins(t *testing.T) {
	t.Setenv("LECTERN_GEMINI_API_KEY", "env-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Fatalf("env override not applied: %q", cfg.Gemini.APIKey)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
