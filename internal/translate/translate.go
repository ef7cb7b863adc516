// Package translate runs the translation stage: slide narration is
// translated for speech synthesis and the slide's individual text blocks are
// translated for overlays and transcripts.
//
// A slide whose translation fails is marked rather than dropped: its
// translation is emptied and the error recorded on the slide, and the job
// carries on with the remaining slides.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lectern/internal/cache"
	"lectern/internal/deck"
	"lectern/internal/language"
	"lectern/internal/logging"
	"lectern/internal/services/translator"
)

const (
	maxAttempts = 3

	// Retry waits grow with the attempt number. Blocks are short, so their
	// waits are half the slide-text waits.
	textBackoffUnit  = 2 * time.Second
	blockBackoffUnit = 1 * time.Second

	slidePacing        = 500 * time.Millisecond
	slidePacingPremium = 250 * time.Millisecond
)

// Stage translates decks using one engine selected for the job.
type Stage struct {
	engine translator.Engine
	store  *cache.Store
	logger *slog.Logger
	sleep  func(time.Duration)
}

// New builds a Stage. store may be nil to disable caching.
func New(engine translator.Engine, store *cache.Store, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		engine: engine,
		store:  store,
		logger: logging.NewComponentLogger(logger, "translate"),
		sleep:  time.Sleep,
	}
}

// CopyThrough reports whether translating source into target is a no-op. An
// "auto" source always translates, since the detected language is unknown.
func CopyThrough(source, target string) bool {
	source = language.Normalize(source)
	target = language.Normalize(target)
	return source != "" && source != "auto" && source == target
}

// TranslateDeck translates every slide in order. Per-slide failures are
// recorded on the slide; the returned error is reserved for cancellation.
func (s *Stage) TranslateDeck(ctx context.Context, d *deck.Deck, source, target string) error {
	source = language.Normalize(source)
	target = language.Normalize(target)

	if CopyThrough(source, target) {
		s.logger.Info("source and target language match, skipping translation",
			logging.String("language", target))
		for i := range d.Slides {
			slide := &d.Slides[i]
			slide.TranslatedText = strings.TrimSpace(slide.NarrationOrFallback())
			slide.TranslatedBlocks = append([]string(nil), slide.TextBlocks...)
		}
		return nil
	}

	for i := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		slide := &d.Slides[i]
		if err := s.translateSlide(ctx, slide, source, target); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slide.TranslatedText = ""
			slide.TranslatedBlocks = nil
			slide.TranslationError = err.Error()
			s.logger.Warn("slide translation failed",
				logging.Int(logging.FieldSlide, slide.Index),
				logging.Error(err))
			continue
		}
		if i < len(d.Slides)-1 {
			s.sleep(s.pacing())
		}
	}
	return nil
}

func (s *Stage) translateSlide(ctx context.Context, slide *deck.Slide, source, target string) error {
	text := strings.TrimSpace(slide.NarrationOrFallback())
	if text == "" {
		slide.TranslatedText = ""
		slide.TranslatedBlocks = nil
		return nil
	}

	translated, err := s.translateWithRetry(ctx, text, source, target, textBackoffUnit)
	if err != nil {
		return fmt.Errorf("slide text: %w", err)
	}

	blocks := make([]string, 0, len(slide.TextBlocks))
	for idx, block := range slide.TextBlocks {
		block = strings.TrimSpace(block)
		if block == "" {
			blocks = append(blocks, "")
			continue
		}
		translatedBlock, err := s.translateWithRetry(ctx, block, source, target, blockBackoffUnit)
		if err != nil {
			return fmt.Errorf("block %d: %w", idx+1, err)
		}
		blocks = append(blocks, translatedBlock)
	}

	slide.TranslatedText = translated
	slide.TranslatedBlocks = blocks
	s.logger.Info("slide translated",
		logging.Int(logging.FieldSlide, slide.Index),
		logging.Int("blocks", len(blocks)))
	return nil
}

func (s *Stage) translateWithRetry(ctx context.Context, text, source, target string, backoffUnit time.Duration) (string, error) {
	key := cache.Key{Engine: s.engine.Name(), SourceLang: source, TargetLang: target, Text: text}
	if s.store != nil {
		if cached, ok, err := s.store.Get(ctx, key); err != nil {
			s.logger.Warn("translation cache read failed", logging.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		translated, err := s.engine.Translate(ctx, text, source, target)
		if err == nil {
			translated = strings.TrimSpace(translated)
			if translated == "" {
				lastErr = fmt.Errorf("empty translation from %s", s.engine.Name())
				continue
			}
			if s.store != nil {
				if err := s.store.Put(ctx, key, translated); err != nil {
					s.logger.Warn("translation cache write failed", logging.Error(err))
				}
			}
			return translated, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < maxAttempts {
			s.sleep(time.Duration(attempt) * backoffUnit)
		}
	}
	return "", lastErr
}

func (s *Stage) pacing() time.Duration {
	if s.engine.Premium() {
		return slidePacingPremium
	}
	return slidePacing
}
