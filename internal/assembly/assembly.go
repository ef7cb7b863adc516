// Package assembly renders the final video: one clip per slide sized to the
// slide's real audio duration, concatenated losslessly at the end.
package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"lectern/internal/deck"
	"lectern/internal/fileutil"
	"lectern/internal/logging"
)

// minAudioBytes separates real audio from the zero-byte placeholders the
// speech stage writes; anything at or below this renders as a silent clip.
const minAudioBytes = 128

// fallbackClipDuration sizes clips whose slide carries no usable duration.
const fallbackClipDuration = 3.0

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configures the renderer.
type Options struct {
	FFmpegBinary string
	Width        int
	Height       int
	FPS          int
	Preset       string
	// OverlayText burns each slide's translated text onto its clip.
	OverlayText bool
	WorkDir     string
	OutputPath  string
}

// Assembler renders decks to video.
type Assembler struct {
	opts   Options
	runner Runner
	logger *slog.Logger
}

// New builds an Assembler that shells out to ffmpeg.
func New(opts Options, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.FFmpegBinary == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	return &Assembler{
		opts:   opts,
		runner: execRunner{},
		logger: logging.NewComponentLogger(logger, "assembly"),
	}
}

// AssembleVideo renders one clip per slide and concatenates them into
// opts.OutputPath. visuals holds one image path per slide; an empty entry
// renders a generated slide-number card instead.
func (a *Assembler) AssembleVideo(ctx context.Context, d *deck.Deck, visuals []string) error {
	if d.Len() == 0 {
		return fmt.Errorf("assembly: deck has no slides")
	}
	if len(visuals) != d.Len() {
		return fmt.Errorf("assembly: %d visuals for %d slides", len(visuals), d.Len())
	}

	clips := make([]string, 0, d.Len())
	for i := range d.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		slide := &d.Slides[i]
		clipPath := filepath.Join(a.opts.WorkDir, fmt.Sprintf("clip_%03d.mp4", slide.Index))
		if err := a.renderClip(ctx, slide, visuals[i], clipPath); err != nil {
			return fmt.Errorf("assembly: slide %d: %w", slide.Index, err)
		}
		clips = append(clips, clipPath)
		a.logger.Info("clip rendered",
			logging.Int(logging.FieldSlide, slide.Index),
			logging.Float64("duration", clipDuration(slide)))
	}

	if err := a.concatenate(ctx, clips); err != nil {
		return fmt.Errorf("assembly: concatenate: %w", err)
	}
	a.logger.Info("video assembled",
		logging.String("output", a.opts.OutputPath),
		logging.Int(logging.FieldSlideCount, len(clips)))
	return nil
}

func clipDuration(slide *deck.Slide) float64 {
	if slide.AudioDuration > 0 {
		return slide.AudioDuration
	}
	return fallbackClipDuration
}

// hasUsableAudio reports whether the slide's asset is worth muxing.
func hasUsableAudio(slide *deck.Slide) bool {
	if slide.AudioPath == "" {
		return false
	}
	return fileutil.FileSize(slide.AudioPath) > minAudioBytes
}

func (a *Assembler) renderClip(ctx context.Context, slide *deck.Slide, visual, clipPath string) error {
	duration := strconv.FormatFloat(clipDuration(slide), 'f', 3, 64)
	withAudio := hasUsableAudio(slide)

	args := []string{"-y"}
	if visual != "" {
		args = append(args, "-loop", "1", "-i", visual)
	} else {
		args = append(args, "-f", "lavfi", "-i", a.cardSource())
	}
	// Every clip carries an audio stream so the concat demuxer can
	// stream-copy the sequence; silent slides get generated silence.
	if withAudio {
		args = append(args, "-i", slide.AudioPath)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=r=44100:cl=stereo")
	}

	args = append(args,
		"-t", duration,
		"-vf", a.videoFilter(slide, visual != ""),
		"-r", strconv.Itoa(a.opts.FPS),
		"-c:v", "libx264",
		"-preset", a.opts.Preset,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-ar", "44100",
		"-ac", "2",
		"-shortest",
		clipPath,
	)

	if output, err := a.runner.Run(ctx, a.opts.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("render clip: %w: %s", err, tailOf(output))
	}
	return nil
}

// cardSource generates the stand-in visual for slides with no image.
func (a *Assembler) cardSource() string {
	return fmt.Sprintf("color=c=0x202028:s=%dx%d", a.opts.Width, a.opts.Height)
}

// videoFilter scales and pads the visual to the output frame, draws the
// slide number on generated cards, and optionally burns the slide text.
func (a *Assembler) videoFilter(slide *deck.Slide, hasVisual bool) string {
	w, h := a.opts.Width, a.opts.Height
	parts := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", w, h),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h),
	}
	if !hasVisual {
		parts = append(parts, fmt.Sprintf(
			"drawtext=text='Slide %d':fontcolor=white:fontsize=96:x=(w-text_w)/2:y=(h-text_h)/2",
			slide.Index))
	}
	if a.opts.OverlayText {
		overlay := strings.TrimSpace(slide.TranslatedText)
		if overlay == "" {
			overlay = strings.TrimSpace(slide.RawText)
		}
		if overlay != "" {
			textFile := filepath.Join(a.opts.WorkDir, fmt.Sprintf("overlay_%03d.txt", slide.Index))
			if err := os.WriteFile(textFile, []byte(overlay), 0o644); err != nil {
				// The overlay is cosmetic; keep the clip without it.
				a.logger.Warn("skipping text overlay",
					logging.Int(logging.FieldSlide, slide.Index),
					logging.Error(err))
			} else {
				parts = append(parts, fmt.Sprintf(
					"drawtext=textfile='%s':fontcolor=white:fontsize=36:box=1:boxcolor=black@0.5:boxborderw=12:x=(w-text_w)/2:y=h-text_h-48",
					textFile))
			}
		}
	}
	return strings.Join(parts, ",")
}

// concatenate joins the rendered clips with the concat demuxer, which
// re-encodes nothing.
func (a *Assembler) concatenate(ctx context.Context, clips []string) error {
	listPath := filepath.Join(a.opts.WorkDir, "concat.txt")
	var list strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&list, "file '%s'\n", clip)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		a.opts.OutputPath,
	}
	if output, err := a.runner.Run(ctx, a.opts.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("%w: %s", err, tailOf(output))
	}
	return nil
}

func tailOf(output []byte) string {
	text := strings.TrimSpace(string(output))
	const max = 400
	if len(text) > max {
		text = "..." + text[len(text)-max:]
	}
	return text
}
