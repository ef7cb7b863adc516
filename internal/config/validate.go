package config

import (
	"fmt"
	"strings"
)

var validSDKs = map[string]bool{"auto": true, "genai": true, "legacy": true}

var validLevels = map[string]bool{
	"off": true, "minimal": true, "normal": true, "detailed": true, "academic": true,
}

var validEngines = map[string]bool{"premium": true, "free": true}

var validGenders = map[string]bool{"male": true, "female": true}

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("paths.work_dir is required")
	}
	if !validSDKs[c.SDK] {
		return fmt.Errorf("gemini.sdk must be auto, genai or legacy (got %q)", c.SDK)
	}
	if !validLevels[c.Enrichment.Level] {
		return fmt.Errorf("enrichment.level must be one of off, minimal, normal, detailed, academic (got %q)", c.Enrichment.Level)
	}
	if !validEngines[c.VoiceEngine] {
		return fmt.Errorf("speech.voice_engine must be premium or free (got %q)", c.VoiceEngine)
	}
	if !validGenders[c.VoiceGender] {
		return fmt.Errorf("speech.voice_gender must be male or female (got %q)", c.VoiceGender)
	}
	if c.VoiceEngine == "premium" && c.Speech.GoogleAPIKey == "" {
		return fmt.Errorf("speech.google_api_key is required when speech.voice_engine is premium")
	}
	if c.TargetLanguage == "" {
		return fmt.Errorf("translation.target_language is required")
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Format)
	}
	if c.Enrichment.Level != "off" && strings.TrimSpace(c.Gemini.APIKey) == "" {
		return fmt.Errorf("gemini.api_key is required when enrichment.level is %q", c.Enrichment.Level)
	}
	return nil
}
