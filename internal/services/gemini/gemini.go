// Package gemini provides the text generation capability used by the
// narration and enrichment stages.
//
// Two client library generations exist for the same service. Generator
// abstracts over them; the concrete client is selected once at startup based
// on configuration, and the stages depend only on the interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator produces prose from a prompt at a given sampling temperature.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
	Close() error
}

// Config selects and configures the concrete client.
type Config struct {
	APIKey string
	// SDK is "auto", "genai" (current library) or "legacy" (generative-ai-go).
	SDK         string
	Model       string
	LegacyModel string
}

// New constructs the Generator for the configured SDK generation. With
// "auto" the current library is preferred and the legacy library is used
// only if the current client cannot be constructed.
func New(ctx context.Context, cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SDK)) {
	case "", "auto":
		gen, err := newGenAIClient(ctx, cfg)
		if err == nil {
			return gen, nil
		}
		legacy, legacyErr := newLegacyClient(ctx, cfg)
		if legacyErr != nil {
			return nil, fmt.Errorf("gemini: no usable client: %w", errors.Join(err, legacyErr))
		}
		return legacy, nil
	case "genai":
		return newGenAIClient(ctx, cfg)
	case "legacy":
		return newLegacyClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("gemini: unknown sdk %q", cfg.SDK)
	}
}
