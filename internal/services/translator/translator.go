// Package translator provides the translation engines behind the pipeline's
// translation stage.
//
// Engines form a priority-ordered fallback chain evaluated once per job:
// the premium engine when credentialed, then the free engine, then the
// last-resort engine. An empty chain is a fatal precondition for the job.
package translator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lectern/internal/services"
)

// Engine translates a single piece of text between two languages.
type Engine interface {
	Name() string
	// Premium engines have paid quotas and tolerate shorter pacing delays.
	Premium() bool
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Config controls which engines are available for a job.
type Config struct {
	DeepLAPIKey  string
	DeepLBaseURL string
	FreeBaseURL  string
	LibreBaseURL string
	DisableFree  bool
	DisableLibre bool
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

const defaultHTTPTimeout = 15 * time.Second

// Select resolves the engine chain once per job and returns the first
// available engine. When no engine is available the job cannot proceed and a
// configuration error is returned.
func Select(cfg Config) (Engine, error) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	if key := strings.TrimSpace(cfg.DeepLAPIKey); key != "" {
		return newDeepL(key, cfg.DeepLBaseURL, client), nil
	}
	if !cfg.DisableFree {
		return newGoogleWeb(cfg.FreeBaseURL, client), nil
	}
	if !cfg.DisableLibre {
		return newLibre(cfg.LibreBaseURL, client), nil
	}
	return nil, services.Wrap(services.ErrConfiguration, "translation", "select engine", "no translation engine available", nil)
}
