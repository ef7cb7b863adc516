// Package pipeline sequences a full conversion job: extraction JSON in,
// narrated, translated, voiced video out. Stage wiring is resolved once per
// job from configuration; each stage's failure policy is its own, and the
// pipeline only turns fatal on errors no later stage can absorb.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lectern/internal/artifact"
	"lectern/internal/assembly"
	"lectern/internal/cache"
	"lectern/internal/config"
	"lectern/internal/deck"
	"lectern/internal/enrich"
	"lectern/internal/logging"
	"lectern/internal/narrate"
	"lectern/internal/notifications"
	"lectern/internal/progress"
	"lectern/internal/services"
	"lectern/internal/services/gemini"
	"lectern/internal/services/translator"
	"lectern/internal/services/tts"
	"lectern/internal/speech"
	"lectern/internal/textutil"
	"lectern/internal/transcript"
	"lectern/internal/translate"
)

// Renderer assembles the final video from a voiced deck.
type Renderer interface {
	AssembleVideo(ctx context.Context, d *deck.Deck, visuals []string) error
}

// Options wires a Pipeline. Only Config is required; nil collaborators are
// resolved from configuration at job start.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Notifier notifications.Service
	Progress progress.Sink

	// Generator produces narration and enrichment. Nil leaves both stages
	// to be constructed from config, or skipped when narration is disabled.
	Generator gemini.Generator
	// TranslatorEngine overrides the config-selected translation engine.
	TranslatorEngine translator.Engine
	// SpeechPrimary and SpeechSecondary override the config-selected
	// synthesis engines.
	SpeechPrimary   tts.Engine
	SpeechSecondary tts.Engine
	// NewRenderer overrides video rendering, mainly for tests.
	NewRenderer func(opts assembly.Options, logger *slog.Logger) Renderer
	// VisualsDir overrides the per-deck slide image directory.
	VisualsDir string
}

// Result summarizes a completed conversion job.
type Result struct {
	JobID              string
	SourceFile         string
	TargetLanguage     string
	ArtifactPath       string
	StagedArtifactPath string
	TranscriptPath     string
	VideoPath          string
	TranslatedSlides   int
	TotalSlides        int
	NarrationDisabled  bool
	Duration           time.Duration
}

// Pipeline executes conversion jobs one at a time.
type Pipeline struct {
	opts   Options
	cfg    *config.Config
	logger *slog.Logger
	sink   progress.Sink
}

// New validates opts and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("pipeline: config required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notifications.NewService(opts.Config.Notifications.NtfyTopic,
			opts.Config.Notifications.RequestTimeout)
	}
	if opts.Progress == nil {
		opts.Progress = progress.Discard()
	}
	if opts.NewRenderer == nil {
		opts.NewRenderer = func(aOpts assembly.Options, logger *slog.Logger) Renderer {
			return assembly.New(aOpts, logger)
		}
	}
	return &Pipeline{
		opts:   opts,
		cfg:    opts.Config,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
		sink:   opts.Progress,
	}, nil
}

// Run converts the extraction document at inputPath into a narrated video.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	start := time.Now()

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "ensure directories", "cannot prepare working directories", err)
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, "lectern.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("pipeline: acquire job lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("pipeline: another conversion is already running")
	}
	defer func() { _ = lock.Unlock() }()

	jobID := uuid.NewString()[:8]
	ctx = services.WithJobID(ctx, jobID)
	logger := p.logger.With(logging.String(logging.FieldJobID, jobID))

	result, err := p.run(ctx, logger, jobID, inputPath)
	if err != nil {
		_ = p.opts.Notifier.NotifyJobFailed(ctx, filepath.Base(inputPath), err)
		return nil, err
	}
	result.Duration = time.Since(start)

	_ = p.opts.Notifier.NotifyJobCompleted(ctx, result.SourceFile, result.VideoPath,
		result.TranslatedSlides, result.TotalSlides, result.Duration)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, jobID, inputPath string) (*Result, error) {
	p.publish("Loading deck: " + filepath.Base(inputPath))
	d, err := deck.Load(inputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "load deck", "extraction document unusable", err)
	}
	logger.Info("deck loaded",
		logging.String("source", d.SourceFile),
		logging.Int(logging.FieldSlideCount, d.Len()))

	target := p.cfg.Translation.TargetLanguage
	_ = p.opts.Notifier.NotifyJobStarted(ctx, d.SourceFile, target)

	jobDir := filepath.Join(p.cfg.Paths.WorkDir, "job-"+jobID)
	audioDir := filepath.Join(jobDir, "audio")
	clipsDir := filepath.Join(jobDir, "clips")
	for _, dir := range []string{audioDir, clipsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pipeline: create job directory: %w", err)
		}
	}

	result := &Result{
		JobID:          jobID,
		SourceFile:     d.SourceFile,
		TargetLanguage: target,
		TotalSlides:    d.Len(),
	}

	narrationDisabled, err := p.runGeneration(ctx, logger, d)
	if err != nil {
		return nil, err
	}
	result.NarrationDisabled = narrationDisabled

	if err := p.runTranslation(ctx, logger, d); err != nil {
		return nil, err
	}

	stem := outputStem(d.SourceFile, inputPath)
	artifactName := fmt.Sprintf("%s_%s_%s.json", stem, target, time.Now().Format("20060102_150405"))
	result.ArtifactPath = filepath.Join(p.cfg.Paths.OutputDir, artifactName)
	doc := artifact.FromDeck(d, target, p.cfg.Narration.Style, p.cfg.Enrichment.Level)
	if err := doc.Save(result.ArtifactPath); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	if err := p.runSpeech(ctx, d, target, audioDir); err != nil {
		return nil, err
	}

	result.StagedArtifactPath = artifact.WithAudioPath(result.ArtifactPath)
	staged := artifact.FromDeck(d, target, p.cfg.Narration.Style, p.cfg.Enrichment.Level)
	if err := staged.Save(result.StagedArtifactPath); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	result.VideoPath = filepath.Join(p.cfg.Paths.OutputDir, stem+".mp4")
	if err := p.runAssembly(ctx, d, result.StagedArtifactPath, inputPath, clipsDir, result.VideoPath); err != nil {
		return nil, err
	}

	if p.cfg.Transcript.Enabled {
		result.TranscriptPath = filepath.Join(p.cfg.Paths.OutputDir, stem+"_transcript.docx")
		if err := p.runTranscript(d, target, result.TranscriptPath); err != nil {
			logger.Warn("transcript export failed", logging.Error(err))
			result.TranscriptPath = ""
		}
	}

	for i := range d.Slides {
		if d.Slides[i].TranslatedText != "" {
			result.TranslatedSlides++
		}
	}
	logger.Info("conversion complete",
		logging.Int("translated", result.TranslatedSlides),
		logging.Int(logging.FieldSlideCount, result.TotalSlides),
		logging.String("output", result.VideoPath))
	p.publish(fmt.Sprintf("Done: %d/%d slides translated", result.TranslatedSlides, result.TotalSlides))
	return result, nil
}

// runGeneration covers enrichment and narration. Both ride the same
// generator; with narration disabled or no API key the deck passes through
// untouched.
func (p *Pipeline) runGeneration(ctx context.Context, logger *slog.Logger, d *deck.Deck) (disabled bool, err error) {
	if !p.cfg.Narration.Enabled {
		logger.Info("narration disabled, slides speak their own text")
		return false, nil
	}

	gen := p.opts.Generator
	if gen == nil {
		if strings.TrimSpace(p.cfg.Gemini.APIKey) == "" {
			logger.Warn("no generation api key configured, skipping narration")
			return false, nil
		}
		gen, err = gemini.New(ctx, gemini.Config{
			APIKey:      p.cfg.Gemini.APIKey,
			SDK:         p.cfg.Gemini.SDK,
			Model:       p.cfg.Gemini.Model,
			LegacyModel: p.cfg.Gemini.LegacyModel,
		})
		if err != nil {
			return false, services.Wrap(services.ErrConfiguration, "narrate", "client", "generation client unavailable", err)
		}
		defer gen.Close()
	}

	if p.cfg.Enrichment.Level != "" && p.cfg.Enrichment.Level != "off" {
		level, err := enrich.LevelByName(p.cfg.Enrichment.Level)
		if err != nil {
			return false, services.Wrap(services.ErrConfiguration, "enrich", "level", "bad enrichment level", err)
		}
		p.publish("Enriching slides: " + level.Name)
		enricher := enrich.New(gen, level, p.cfg.Enrichment.Topic, p.opts.Logger)
		if err := enricher.EnrichDeck(services.WithStage(ctx, "enrich"), d); err != nil {
			return false, err
		}
	}

	style, err := narrate.StyleByKey(p.cfg.Narration.Style)
	if err != nil {
		return false, services.Wrap(services.ErrConfiguration, "narrate", "style", "bad narration style", err)
	}
	p.publish("Narrating slides: " + style.Name)
	narrator := narrate.New(gen, style, p.opts.Logger)
	if err := narrator.NarrateDeck(services.WithStage(ctx, "narrate"), d); err != nil {
		return false, err
	}
	return narrator.Disabled(), nil
}

func (p *Pipeline) runTranslation(ctx context.Context, logger *slog.Logger, d *deck.Deck) error {
	engine := p.opts.TranslatorEngine
	if engine == nil {
		var err error
		engine, err = translator.Select(translator.Config{
			DeepLAPIKey:  p.cfg.Translation.DeepLAPIKey,
			DeepLBaseURL: p.cfg.Translation.DeepLBaseURL,
			FreeBaseURL:  p.cfg.Translation.FreeBaseURL,
			LibreBaseURL: p.cfg.Translation.LibreBaseURL,
			DisableFree:  p.cfg.Translation.DisableFree,
			DisableLibre: p.cfg.Translation.DisableLibre,
		})
		if err != nil {
			return err
		}
	}

	var store *cache.Store
	if p.cfg.Translation.CacheEnabled && p.cfg.Paths.CachePath != "" {
		var err error
		store, err = cache.Open(p.cfg.Paths.CachePath)
		if err != nil {
			logger.Warn("translation cache unavailable, continuing without it", logging.Error(err))
		} else {
			defer store.Close()
		}
	}

	p.publish("Translating slides via " + engine.Name())
	stage := translate.New(engine, store, p.opts.Logger)
	return stage.TranslateDeck(services.WithStage(ctx, "translate"),
		d, p.cfg.Translation.SourceLanguage, p.cfg.Translation.TargetLanguage)
}

func (p *Pipeline) runSpeech(ctx context.Context, d *deck.Deck, target, audioDir string) error {
	primary, secondary := p.opts.SpeechPrimary, p.opts.SpeechSecondary
	if primary == nil {
		primary, secondary = tts.Select(tts.Config{
			VoiceEngine:     p.cfg.Speech.VoiceEngine,
			VoiceGender:     p.cfg.Speech.VoiceGender,
			GoogleAPIKey:    p.cfg.Speech.GoogleAPIKey,
			EspeakBinary:    p.cfg.Speech.EspeakBinary,
			DisableFallback: p.cfg.Speech.DisableFallback,
		})
	}

	p.publish("Synthesizing speech: " + primary.Name())
	stage := speech.New(primary, secondary, p.cfg.Video.FFprobeBinary, p.opts.Logger)
	return stage.SynthesizeDeck(services.WithStage(ctx, "speech"), d, target, audioDir)
}

// runAssembly renders the video from the staged audio document, not from
// whatever the in-memory deck accumulated along the way.
func (p *Pipeline) runAssembly(ctx context.Context, d *deck.Deck, stagedPath, inputPath, clipsDir, videoPath string) error {
	doc, err := artifact.Load(stagedPath)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	doc.ApplyToDeck(d)

	visuals := p.resolveVisuals(d, inputPath)
	renderer := p.opts.NewRenderer(assembly.Options{
		FFmpegBinary: p.cfg.Video.FFmpegBinary,
		Width:        p.cfg.Video.Width,
		Height:       p.cfg.Video.Height,
		FPS:          p.cfg.Video.FPS,
		Preset:       p.cfg.Video.Preset,
		OverlayText:  p.cfg.Video.OverlayText,
		WorkDir:      clipsDir,
		OutputPath:   videoPath,
	}, p.opts.Logger)

	p.publish("Assembling video")
	return renderer.AssembleVideo(services.WithStage(ctx, "assembly"), d, visuals)
}

func (p *Pipeline) runTranscript(d *deck.Deck, target, path string) error {
	p.publish("Writing transcript")
	return transcript.Write(d, target, path)
}

// resolveVisuals locates one slide image per slide. Missing images render as
// generated slide-number cards rather than reusing another slide's image.
func (p *Pipeline) resolveVisuals(d *deck.Deck, inputPath string) []string {
	dir := p.opts.VisualsDir
	if dir == "" {
		stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		dir = stem + "_images"
	}

	visuals := make([]string, d.Len())
	for i := range d.Slides {
		for _, ext := range []string{".png", ".jpg", ".jpeg"} {
			candidate := filepath.Join(dir, fmt.Sprintf("slide_%03d%s", d.Slides[i].Index, ext))
			if _, err := os.Stat(candidate); err == nil {
				visuals[i] = candidate
				break
			}
		}
	}
	return visuals
}

func (p *Pipeline) publish(message string) {
	p.sink.Publish(message)
}

// outputStem derives output file names from the deck's source file, falling
// back to the input path.
func outputStem(sourceFile, inputPath string) string {
	name := filepath.Base(sourceFile)
	if name == "" || name == "." {
		name = filepath.Base(inputPath)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return textutil.SanitizeFileName(name)
}
