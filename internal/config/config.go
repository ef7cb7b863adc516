package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	CachePath string `toml:"cache_path"`
}

// Gemini contains connection settings for the narration/enrichment engine.
type Gemini struct {
	APIKey string `toml:"api_key"`
	// SDK selects the client library generation: "auto", "genai" (current)
	// or "legacy" (generative-ai-go). Resolved once at startup.
	SDK         string `toml:"sdk"`
	Model       string `toml:"model"`
	LegacyModel string `toml:"legacy_model"`
}

// Narration contains narration stage settings.
type Narration struct {
	Enabled bool   `toml:"enabled"`
	Style   string `toml:"style"`
}

// Enrichment contains enrichment stage settings.
type Enrichment struct {
	Level string `toml:"level"`
	// Topic overrides the auto-detected presentation topic.
	Topic string `toml:"topic"`
}

// Translation contains translation stage settings.
type Translation struct {
	TargetLanguage string `toml:"target_language"`
	SourceLanguage string `toml:"source_language"`
	DeepLAPIKey    string `toml:"deepl_api_key"`
	DeepLBaseURL   string `toml:"deepl_base_url"`
	FreeBaseURL    string `toml:"free_base_url"`
	LibreBaseURL   string `toml:"libre_base_url"`
	// DisableFree and DisableLibre exist mainly so tests and restricted
	// deployments can force the premium engine or an empty chain.
	DisableFree  bool `toml:"disable_free"`
	DisableLibre bool `toml:"disable_libre"`
	CacheEnabled bool `toml:"cache_enabled"`
}

// Speech contains text-to-speech settings.
type Speech struct {
	// VoiceEngine selects the primary synthesizer: "premium" or "free".
	VoiceEngine string `toml:"voice_engine"`
	// VoiceGender applies to the premium engine only: "male" or "female".
	VoiceGender     string `toml:"voice_gender"`
	GoogleAPIKey    string `toml:"google_api_key"`
	EspeakBinary    string `toml:"espeak_binary"`
	DisableFallback bool   `toml:"disable_fallback"`
}

// Video contains encoding settings for the assembly stage.
type Video struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	FPS           int    `toml:"fps"`
	Preset        string `toml:"preset"`
	OverlayText   bool   `toml:"overlay_text"`
}

// Transcript contains settings for the .docx transcript export.
type Transcript struct {
	Enabled bool `toml:"enabled"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration for the converter.
type Config struct {
	Paths         `toml:"paths"`
	Gemini        `toml:"gemini"`
	Narration     `toml:"narration"`
	Enrichment    `toml:"enrichment"`
	Translation   `toml:"translation"`
	Speech        `toml:"speech"`
	Video         `toml:"video"`
	Transcript    `toml:"transcript"`
	Notifications `toml:"notifications"`
	Logging       `toml:"logging"`
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lectern.toml"
	}
	return filepath.Join(home, ".config", "lectern", "config.toml")
}

// Load reads the configuration file at path, applies defaults, environment
// overrides and normalization, and validates the result. A missing file is
// not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the output, work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir, c.WorkDir, c.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("LECTERN_GEMINI_API_KEY")); v != "" {
		c.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" && c.Gemini.APIKey == "" {
		c.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("LECTERN_DEEPL_API_KEY")); v != "" {
		c.Translation.DeepLAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("LECTERN_NTFY_TOPIC")); v != "" {
		c.Notifications.NtfyTopic = v
	}
}
