// Package narrate turns slide text into spoken-style lecture narration.
//
// The stage is deliberately forgiving: a slide whose narration cannot be
// generated falls back to its own text, and a critical provider error stops
// all further generation for the job rather than hammering a dead API.
package narrate

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"lectern/internal/deck"
	"lectern/internal/logging"
	"lectern/internal/services"
	"lectern/internal/services/gemini"
)

const (
	maxAttempts      = 2
	rateLimitBackoff = 5 * time.Second
	callPacing       = 800 * time.Millisecond
	historyWindow    = 2

	// Slides with fewer runes than this narrate as-is. Section dividers and
	// lone numbers gain nothing from generation.
	minNarratableRunes = 5
)

// Narrator runs the narration stage over a deck.
type Narrator struct {
	gen    gemini.Generator
	style  Style
	logger *slog.Logger

	history  []historyEntry
	disabled bool
	sleep    func(time.Duration)
}

// New builds a Narrator for the given style.
func New(gen gemini.Generator, style Style, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Narrator{
		gen:    gen,
		style:  style,
		logger: logging.NewComponentLogger(logger, "narrate"),
		sleep:  time.Sleep,
	}
}

// Disabled reports whether a critical provider error has stopped generation.
func (n *Narrator) Disabled() bool { return n.disabled }

// NarrateDeck generates narration for every slide in order. Slides that
// cannot be narrated keep their own text; the deck always comes back with
// NarrationText set on every slide.
func (n *Narrator) NarrateDeck(ctx context.Context, d *deck.Deck) error {
	n.history = nil
	total := d.Len()

	n.logger.Info("narration style selected",
		logging.String("style", n.style.Key),
		logging.String("name", n.style.Name))

	for i := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		slide := &d.Slides[i]
		text := strings.TrimSpace(slide.PreNarrationText())

		if utf8.RuneCountInString(text) < minNarratableRunes {
			slide.NarrationText = text
			continue
		}
		if n.disabled {
			slide.NarrationText = text
			continue
		}

		narration := n.narrateSlide(ctx, slide.Index, text, total)
		if narration == "" {
			slide.NarrationText = text
		} else {
			slide.NarrationText = narration
			n.remember(slide.Index, narration)
			n.logger.Info("slide narration generated",
				logging.Int(logging.FieldSlide, slide.Index),
				logging.Int(logging.FieldSlideCount, total))
		}
	}
	return nil
}

// narrateSlide returns the generated narration, or "" when every attempt
// failed and the caller should fall back to the slide text.
func (n *Narrator) narrateSlide(ctx context.Context, index int, text string, total int) string {
	prompt := buildPrompt(n.style, text, index, total, n.history)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := n.gen.Generate(ctx, prompt, n.style.Temperature)
		if err != nil {
			if services.IsCritical(err) {
				n.logger.Error("critical provider error, disabling narration for remaining slides",
					logging.Int(logging.FieldSlide, index),
					logging.Error(err))
				n.disabled = true
				return ""
			}
			if services.IsRateLimited(err) {
				n.logger.Warn("narration rate limited, backing off",
					logging.Int(logging.FieldSlide, index),
					logging.Duration("backoff", rateLimitBackoff))
				n.sleep(rateLimitBackoff)
			} else {
				n.logger.Warn("slide narration attempt failed",
					logging.Int(logging.FieldSlide, index),
					logging.Int("attempt", attempt),
					logging.Error(err))
			}
			n.sleep(callPacing)
			continue
		}

		result = strings.TrimSpace(result)
		n.sleep(callPacing)
		if result != "" {
			return result
		}
	}
	return ""
}

func (n *Narrator) remember(index int, narration string) {
	n.history = append(n.history, historyEntry{index: index, narration: narration})
	if len(n.history) > historyWindow {
		n.history = n.history[len(n.history)-historyWindow:]
	}
}
