package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize trims and canonicalizes user-supplied values and expands home
// directory references. It never fails; Validate reports what remains wrong.
func (c *Config) Normalize() {
	c.OutputDir = expandHome(strings.TrimSpace(c.OutputDir))
	c.WorkDir = expandHome(strings.TrimSpace(c.WorkDir))
	c.LogDir = expandHome(strings.TrimSpace(c.LogDir))
	c.CachePath = expandHome(strings.TrimSpace(c.CachePath))

	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.SDK = strings.ToLower(strings.TrimSpace(c.SDK))
	if c.SDK == "" {
		c.SDK = defaultGeminiSDK
	}
	c.Model = strings.TrimSpace(c.Model)
	c.LegacyModel = strings.TrimSpace(c.LegacyModel)

	c.Style = strings.ToLower(strings.TrimSpace(c.Style))
	if c.Style == "" {
		c.Style = defaultStyle
	}

	c.Enrichment.Level = strings.ToLower(strings.TrimSpace(c.Enrichment.Level))
	if c.Enrichment.Level == "" {
		c.Enrichment.Level = defaultEnrichLevel
	}
	c.Topic = strings.TrimSpace(c.Topic)

	c.TargetLanguage = strings.ToLower(strings.TrimSpace(c.TargetLanguage))
	c.SourceLanguage = strings.ToLower(strings.TrimSpace(c.SourceLanguage))
	c.DeepLAPIKey = strings.TrimSpace(c.DeepLAPIKey)

	c.VoiceEngine = strings.ToLower(strings.TrimSpace(c.VoiceEngine))
	c.VoiceGender = strings.ToLower(strings.TrimSpace(c.VoiceGender))

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))

	c.NtfyTopic = strings.TrimSpace(c.NtfyTopic)
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultNtfyTimeout
	}

	if c.Width <= 0 {
		c.Width = defaultVideoWidth
	}
	if c.Height <= 0 {
		c.Height = defaultVideoHeight
	}
	if c.FPS <= 0 {
		c.FPS = defaultVideoFPS
	}
	if strings.TrimSpace(c.Preset) == "" {
		c.Preset = defaultVideoPreset
	}
	if strings.TrimSpace(c.FFmpegBinary) == "" {
		c.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.FFprobeBinary) == "" {
		c.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.EspeakBinary) == "" {
		c.EspeakBinary = defaultEspeakBinary
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
