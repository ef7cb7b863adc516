// Package enrich expands slide text with supporting material before
// narration. Enrichment failures are never fatal to a job: a slide that
// cannot be enriched narrates from its original text.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lectern/internal/deck"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/services/gemini"
	"lectern/internal/textutil"
)

const (
	maxAttempts      = 2
	rateLimitBackoff = 5 * time.Second
	callPacing       = 500 * time.Millisecond
	historyWindow    = 2
	summaryRunes     = 100
	topicRunes       = 100
)

// Enricher runs the enrichment stage over a deck.
type Enricher struct {
	gen    gemini.Generator
	level  Level
	topic  string
	logger *slog.Logger

	history []string
	sleep   func(time.Duration)
}

// New builds an Enricher. topic may be empty, in which case it is detected
// from the first slide when enrichment first runs.
func New(gen gemini.Generator, level Level, topic string, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enricher{
		gen:    gen,
		level:  level,
		topic:  strings.TrimSpace(topic),
		logger: logging.NewComponentLogger(logger, "enrich"),
		sleep:  time.Sleep,
	}
}

// EnrichDeck enriches every slide in order, storing results on the slides.
// With level "off" the generator is never invoked and slides carry their
// original text trimmed.
func (e *Enricher) EnrichDeck(ctx context.Context, d *deck.Deck) error {
	for i := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		slide := &d.Slides[i]
		enriched, err := e.EnrichSlide(ctx, slide.Index, slide.RawText, d.Len())
		if err != nil {
			e.logger.Warn("slide enrichment failed, narrating original text",
				logging.Int(logging.FieldSlide, slide.Index),
				logging.Error(err))
			continue
		}
		slide.EnrichedText = enriched
		if e.level.Name != "off" && i < len(d.Slides)-1 {
			e.sleep(callPacing)
		}
	}
	return nil
}

// EnrichSlide enriches one slide's text. The returned string is the enriched
// text, or the trimmed input when the level is "off".
func (e *Enricher) EnrichSlide(ctx context.Context, index int, text string, total int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if e.level.Name == "off" || trimmed == "" {
		return trimmed, nil
	}

	if e.topic == "" {
		e.topic = detectTopic(trimmed)
		e.logger.Info("detected presentation topic", logging.String("topic", e.topic))
	}

	prompt := e.buildPrompt(index, trimmed, total)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := e.gen.Generate(ctx, prompt, e.level.Temperature)
		if err == nil {
			result = strings.TrimSpace(result)
			if result == "" {
				lastErr = fmt.Errorf("empty enrichment response")
				continue
			}
			e.remember(result)
			return result, nil
		}
		lastErr = err
		if services.IsCritical(err) {
			return "", services.Wrap(services.ErrCritical, "enrich", "generate",
				"enrichment request rejected", err)
		}
		if services.IsRateLimited(err) && attempt < maxAttempts {
			e.logger.Warn("enrichment rate limited, backing off",
				logging.Int(logging.FieldSlide, index),
				logging.Duration("backoff", rateLimitBackoff))
			e.sleep(rateLimitBackoff)
		}
	}
	return "", services.Wrap(services.ErrTransient, "enrich", "generate",
		"enrichment failed after retries", lastErr)
}

func (e *Enricher) buildPrompt(index int, text string, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are preparing lecture material on %q.\n", e.topic)
	fmt.Fprintf(&b, "Below is the text of slide %d of %d.\n\n", index, total)
	b.WriteString(e.level.directive)
	b.WriteString("\nReturn only the enriched slide text, with no preamble and no markdown.\n")
	if len(e.history) > 0 {
		b.WriteString("\nMaterial already covered on earlier slides:\n")
		for _, h := range e.history {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("Do not repeat it.\n")
	}
	b.WriteString("\nSlide text:\n")
	b.WriteString(text)
	return b.String()
}

// remember keeps a short rolling summary of recent enrichments so later
// prompts avoid repeating material.
func (e *Enricher) remember(result string) {
	e.history = append(e.history, textutil.Truncate(result, summaryRunes))
	if len(e.history) > historyWindow {
		e.history = e.history[len(e.history)-historyWindow:]
	}
}

// detectTopic derives a presentation topic from the first line of slide
// text, typically the title slide.
func detectTopic(text string) string {
	topic := textutil.Truncate(textutil.FirstLine(text), topicRunes)
	if topic == "" {
		return "the presentation subject"
	}
	return topic
}
