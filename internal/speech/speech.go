// Package speech runs the speech synthesis stage: every slide gets an audio
// asset and a positive duration, even when synthesis fails outright. The
// assembly stage depends on that guarantee to size its clips.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"lectern/internal/deck"
	"lectern/internal/fileutil"
	"lectern/internal/logging"
	"lectern/internal/media/ffprobe"
	"lectern/internal/services/tts"
	"lectern/internal/textutil"
)

const (
	// wordsPerSecond estimates speech duration when the asset cannot be
	// decoded.
	wordsPerSecond = 2.5

	// placeholderDuration is the display time for slides with no usable
	// audio.
	placeholderDuration = 3.0

	minDuration = 1.0

	assetNameFormat = "slide_%03d.mp3"
)

// Stage synthesizes per-slide audio using a primary engine with an optional
// per-call fallback.
type Stage struct {
	primary   tts.Engine
	secondary tts.Engine
	logger    *slog.Logger

	// probe measures an audio asset's duration, replaceable in tests.
	probe func(ctx context.Context, path string) float64
}

// New builds a Stage. secondary may be nil. ffprobeBinary locates the
// decoder used for duration measurement.
func New(primary, secondary tts.Engine, ffprobeBinary string, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Stage{
		primary:   primary,
		secondary: secondary,
		logger:    logging.NewComponentLogger(logger, "speech"),
	}
	s.probe = func(ctx context.Context, path string) float64 {
		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		result, err := ffprobe.Inspect(probeCtx, ffprobeBinary, path)
		if err != nil {
			return 0
		}
		return result.DurationSeconds()
	}
	return s
}

// SynthesizeDeck produces one audio asset per slide under outDir and stores
// the asset path and measured duration on each slide.
func (s *Stage) SynthesizeDeck(ctx context.Context, d *deck.Deck, lang, outDir string) error {
	for i := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.synthesizeSlide(ctx, &d.Slides[i], lang, outDir); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stage) synthesizeSlide(ctx context.Context, slide *deck.Slide, lang, outDir string) error {
	outPath := filepath.Join(outDir, fmt.Sprintf(assetNameFormat, slide.Index))
	text := textutil.StripLeadingSlideNumbers(slide.EffectiveText())
	text = strings.TrimSpace(text)

	if text == "" {
		return s.placeholder(slide, outPath, "slide has no speakable text")
	}

	if err := s.synthesize(ctx, text, lang, outPath); err != nil {
		s.logger.Warn("all synthesis engines failed, using silent placeholder",
			logging.Int(logging.FieldSlide, slide.Index),
			logging.Error(err))
		return s.placeholder(slide, outPath, "synthesis failed")
	}

	duration := s.probe(ctx, outPath)
	if duration <= 0 {
		duration = estimateDuration(text)
		s.logger.Warn("audio duration unreadable, estimating from word count",
			logging.Int(logging.FieldSlide, slide.Index),
			logging.Float64("duration", duration))
	}

	slide.AudioPath = outPath
	slide.AudioDuration = duration
	s.logger.Info("slide audio synthesized",
		logging.Int(logging.FieldSlide, slide.Index),
		logging.Float64("duration", duration))
	return nil
}

// synthesize tries the primary engine and falls through to the secondary for
// this call only.
func (s *Stage) synthesize(ctx context.Context, text, lang, outPath string) error {
	primaryErr := s.primary.Synthesize(ctx, text, lang, outPath)
	if primaryErr == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.secondary == nil {
		return primaryErr
	}
	s.logger.Warn("primary synthesis failed, trying fallback engine",
		logging.String("primary", s.primary.Name()),
		logging.String("fallback", s.secondary.Name()),
		logging.Error(primaryErr))
	if err := s.secondary.Synthesize(ctx, text, lang, outPath); err != nil {
		return fmt.Errorf("%s: %w (after %s: %v)", s.secondary.Name(), err, s.primary.Name(), primaryErr)
	}
	return nil
}

func (s *Stage) placeholder(slide *deck.Slide, outPath, reason string) error {
	if err := fileutil.WritePlaceholder(outPath); err != nil {
		return fmt.Errorf("write placeholder for slide %d: %w", slide.Index, err)
	}
	slide.AudioPath = outPath
	slide.AudioDuration = placeholderDuration
	s.logger.Info("placeholder audio written",
		logging.Int(logging.FieldSlide, slide.Index),
		logging.String("reason", reason))
	return nil
}

func estimateDuration(text string) float64 {
	estimate := float64(textutil.WordCount(text)) / wordsPerSecond
	if estimate < minDuration {
		return minDuration
	}
	return estimate
}
