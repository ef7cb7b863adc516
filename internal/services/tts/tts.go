// Package tts provides the speech synthesis engines behind the pipeline's
// speech stage.
//
// Unlike translation, engine fallback here is per-call: the primary engine is
// attempted first for each slide and any failure falls through to the
// secondary engine for that slide only.
package tts

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Engine synthesizes speech for text in the given language into outPath.
type Engine interface {
	Name() string
	Synthesize(ctx context.Context, text, lang, outPath string) error
}

// Config selects and configures the synthesis engines.
type Config struct {
	// VoiceEngine selects the primary synthesizer: "premium" or "free".
	VoiceEngine string
	// VoiceGender applies to the premium engine only.
	VoiceGender  string
	GoogleAPIKey string
	EspeakBinary string
	// DisableFallback removes the offline secondary engine.
	DisableFallback bool
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	// PremiumBaseURL and FreeBaseURL override the endpoints, mainly for tests.
	PremiumBaseURL string
	FreeBaseURL    string
}

const defaultHTTPTimeout = 30 * time.Second

// Select resolves the primary and secondary engines for a job. The secondary
// may be nil when the offline fallback is disabled.
func Select(cfg Config) (primary Engine, secondary Engine) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	if strings.EqualFold(cfg.VoiceEngine, "premium") && strings.TrimSpace(cfg.GoogleAPIKey) != "" {
		primary = newCloudVoice(cfg.GoogleAPIKey, cfg.VoiceGender, cfg.PremiumBaseURL, client)
	} else {
		primary = newGoogleTTS(cfg.FreeBaseURL, client)
	}

	if !cfg.DisableFallback {
		secondary = newEspeak(cfg.EspeakBinary)
	}
	return primary, secondary
}
