package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/artifact"
	"lectern/internal/assembly"
	"lectern/internal/deck"
	"lectern/internal/progress"
	"lectern/internal/testsupport"
)

type fakeTTS struct {
	name  string
	calls []string
}

func (f *fakeTTS) Name() string { return f.name }

func (f *fakeTTS) Synthesize(ctx context.Context, text, lang, outPath string) error {
	f.calls = append(f.calls, text)
	return os.WriteFile(outPath, make([]byte, 2048), 0o644)
}

type fakeTranslator struct {
	calls   int
	respond func(text string) (string, error)
}

func (f *fakeTranslator) Name() string  { return "fake-translator" }
func (f *fakeTranslator) Premium() bool { return true }

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls++
	if f.respond != nil {
		return f.respond(text)
	}
	return "[" + target + "] " + text, nil
}

type fakeRenderer struct {
	slides    int
	visuals   []string
	audio     []string
	durations []float64
	fail      bool
}

func (f *fakeRenderer) AssembleVideo(ctx context.Context, d *deck.Deck, visuals []string) error {
	f.slides = d.Len()
	f.visuals = visuals
	for i := range d.Slides {
		f.audio = append(f.audio, d.Slides[i].AudioPath)
		f.durations = append(f.durations, d.Slides[i].AudioDuration)
	}
	if f.fail {
		return errors.New("encode failed")
	}
	return nil
}

func TestRunCopyThroughJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Narration.Enabled = false
	cfg.Translation.SourceLanguage = "en"
	cfg.Translation.TargetLanguage = "en"

	tts := &fakeTTS{name: "fake-tts"}
	renderer := &fakeRenderer{}
	translatorEngine := &fakeTranslator{}
	var messages []string
	p, err := New(Options{
		Config:           cfg,
		Progress:         progress.Func(func(m string) { messages = append(messages, m) }),
		TranslatorEngine: translatorEngine,
		SpeechPrimary:    tts,
		NewRenderer:      func(assembly.Options, *slog.Logger) Renderer { return renderer },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	input := testsupport.WriteExtraction(t, "First slide text", "Second slide text", "Third slide text")
	result, err := p.Run(t.Context(), input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if translatorEngine.calls != 0 {
		t.Errorf("translator calls = %d, want 0 for matching languages", translatorEngine.calls)
	}
	if len(tts.calls) != 3 {
		t.Errorf("synthesis calls = %d, want 3", len(tts.calls))
	}
	if renderer.slides != 3 || len(renderer.visuals) != 3 {
		t.Errorf("renderer got %d slides / %d visuals", renderer.slides, len(renderer.visuals))
	}
	if result.TranslatedSlides != 3 || result.TotalSlides != 3 {
		t.Errorf("result = %d/%d", result.TranslatedSlides, result.TotalSlides)
	}
	if result.JobID == "" || result.VideoPath == "" {
		t.Errorf("result incomplete: %+v", result)
	}

	doc, err := artifact.Load(result.StagedArtifactPath)
	if err != nil {
		t.Fatalf("staged artifact: %v", err)
	}
	for _, entry := range doc.Slides {
		if entry.AudioFile == "" || entry.Duration <= 0 {
			t.Errorf("slide %d missing audio metadata: %+v", entry.SlideNumber, entry)
		}
	}
	if len(messages) == 0 {
		t.Error("no progress published")
	}
}

func TestRunMarksFailedTranslationAndFinishes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Narration.Enabled = false
	cfg.Translation.SourceLanguage = "en"
	cfg.Translation.TargetLanguage = "tr"

	tts := &fakeTTS{name: "fake-tts"}
	renderer := &fakeRenderer{}
	translatorEngine := &fakeTranslator{
		respond: func(text string) (string, error) {
			if text == "Second slide text" {
				return "", errors.New("backend error")
			}
			return "çeviri: " + text, nil
		},
	}
	p, err := New(Options{
		Config:           cfg,
		TranslatorEngine: translatorEngine,
		SpeechPrimary:    tts,
		NewRenderer:      func(assembly.Options, *slog.Logger) Renderer { return renderer },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	input := testsupport.WriteExtraction(t, "First slide text", "Second slide text", "Third slide text")
	result, err := p.Run(t.Context(), input)
	if err != nil {
		t.Fatalf("run should absorb per-slide translation failures: %v", err)
	}

	if result.TranslatedSlides != 2 {
		t.Errorf("translated slides = %d, want 2", result.TranslatedSlides)
	}
	if len(tts.calls) != 3 {
		t.Errorf("synthesis calls = %d, want 3 (failed slide still speaks)", len(tts.calls))
	}

	doc, err := artifact.Load(result.ArtifactPath)
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}
	failed := doc.Slides[1]
	if failed.TranslatedText != "" {
		t.Errorf("failed slide translation = %q, want empty", failed.TranslatedText)
	}
	if failed.TranslationError == "" {
		t.Error("failed slide should carry its error")
	}
}

func TestRunRejectsUnusableInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Narration.Enabled = false
	p, err := New(Options{
		Config:           cfg,
		TranslatorEngine: &fakeTranslator{},
		SpeechPrimary:    &fakeTTS{name: "fake-tts"},
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	if _, err := p.Run(t.Context(), "/nonexistent/deck.json"); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunFatalOnRenderFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Narration.Enabled = false
	cfg.Translation.SourceLanguage = "en"
	cfg.Translation.TargetLanguage = "en"

	renderer := &fakeRenderer{fail: true}
	p, err := New(Options{
		Config:           cfg,
		TranslatorEngine: &fakeTranslator{},
		SpeechPrimary:    &fakeTTS{name: "fake-tts"},
		NewRenderer:      func(assembly.Options, *slog.Logger) Renderer { return renderer },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	input := testsupport.WriteExtraction(t, "Only slide text")
	if _, err := p.Run(t.Context(), input); err == nil {
		t.Fatal("expected render failure to be fatal")
	}
}

func TestAssemblyReadsStagedDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	renderer := &fakeRenderer{}
	p, err := New(Options{
		Config:      cfg,
		NewRenderer: func(assembly.Options, *slog.Logger) Renderer { return renderer },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	// The in-memory audio state is stale on purpose; the staged document
	// is the authoritative input to assembly.
	d := &deck.Deck{SourceFile: "lecture.pptx", Slides: []deck.Slide{
		{Index: 1, RawText: "one", AudioPath: "/stale/one.mp3", AudioDuration: 99},
		{Index: 2, RawText: "two"},
	}}
	doc := &artifact.Document{
		SourceFile:  "lecture.pptx",
		TotalSlides: 2,
		Slides: []artifact.SlideEntry{
			{SlideNumber: 1, OriginalText: "one", AudioFile: "/job/audio/slide_001.mp3", Duration: 4.5},
			{SlideNumber: 2, OriginalText: "two", AudioFile: "/job/audio/slide_002.mp3", Duration: 2.25},
		},
	}
	stagedPath := filepath.Join(t.TempDir(), "lecture_en_20240101_120000_with_audio.json")
	if err := doc.Save(stagedPath); err != nil {
		t.Fatalf("save staged document: %v", err)
	}

	videoPath := filepath.Join(cfg.Paths.OutputDir, "lecture.mp4")
	if err := p.runAssembly(t.Context(), d, stagedPath, "lecture.json", t.TempDir(), videoPath); err != nil {
		t.Fatalf("assembly: %v", err)
	}

	wantAudio := []string{"/job/audio/slide_001.mp3", "/job/audio/slide_002.mp3"}
	wantDurations := []float64{4.5, 2.25}
	if len(renderer.audio) != len(wantAudio) {
		t.Fatalf("renderer saw %d slides, want %d", len(renderer.audio), len(wantAudio))
	}
	for i := range wantAudio {
		if renderer.audio[i] != wantAudio[i] {
			t.Errorf("slide %d audio = %q, want %q", i+1, renderer.audio[i], wantAudio[i])
		}
		if renderer.durations[i] != wantDurations[i] {
			t.Errorf("slide %d duration = %v, want %v", i+1, renderer.durations[i], wantDurations[i])
		}
	}
}

func TestAssemblyFailsWithoutStagedDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	renderer := &fakeRenderer{}
	p, err := New(Options{
		Config:      cfg,
		NewRenderer: func(assembly.Options, *slog.Logger) Renderer { return renderer },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	d := &deck.Deck{SourceFile: "lecture.pptx", Slides: []deck.Slide{{Index: 1, RawText: "one"}}}
	err = p.runAssembly(t.Context(), d, "/nonexistent/staged.json", "lecture.json", t.TempDir(), "out.mp4")
	if err == nil {
		t.Fatal("expected error for missing staged document")
	}
	if renderer.slides != 0 {
		t.Error("renderer must not run without the staged document")
	}
}
