package config

import (
	"os"
	"path/filepath"
)

const (
	defaultOutputDir      = "~/lectern/output"
	defaultWorkDir        = "~/.local/share/lectern/work"
	defaultLogDir         = "~/.local/share/lectern/logs"
	defaultGeminiSDK      = "auto"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultLegacyModel    = "gemini-1.5-flash"
	defaultStyle          = "engaging"
	defaultEnrichLevel    = "off"
	defaultTargetLanguage = "en"
	defaultSourceLanguage = "auto"
	defaultDeepLBaseURL   = "https://api-free.deepl.com/v2/translate"
	defaultFreeBaseURL    = "https://translate.googleapis.com/translate_a/single"
	defaultLibreBaseURL   = "https://libretranslate.com/translate"
	defaultVoiceEngine    = "free"
	defaultVoiceGender    = "female"
	defaultEspeakBinary   = "espeak-ng"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultVideoWidth     = 1920
	defaultVideoHeight    = 1080
	defaultVideoFPS       = 24
	defaultVideoPreset    = "medium"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNtfyTimeout    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			CachePath: defaultCachePath(),
		},
		Gemini: Gemini{
			SDK:         defaultGeminiSDK,
			Model:       defaultGeminiModel,
			LegacyModel: defaultLegacyModel,
		},
		Narration: Narration{
			Enabled: true,
			Style:   defaultStyle,
		},
		Enrichment: Enrichment{
			Level: defaultEnrichLevel,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
			SourceLanguage: defaultSourceLanguage,
			DeepLBaseURL:   defaultDeepLBaseURL,
			FreeBaseURL:    defaultFreeBaseURL,
			LibreBaseURL:   defaultLibreBaseURL,
			CacheEnabled:   true,
		},
		Speech: Speech{
			VoiceEngine:  defaultVoiceEngine,
			VoiceGender:  defaultVoiceGender,
			EspeakBinary: defaultEspeakBinary,
		},
		Video: Video{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Width:         defaultVideoWidth,
			Height:        defaultVideoHeight,
			FPS:           defaultVideoFPS,
			Preset:        defaultVideoPreset,
			OverlayText:   true,
		},
		Transcript: Transcript{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "translations.db"
	}
	return filepath.Join(home, ".cache", "lectern", "translations.db")
}
