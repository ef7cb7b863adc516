package translate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lectern/internal/cache"
	"lectern/internal/deck"
)

type fakeEngine struct {
	name    string
	premium bool
	calls   int
	respond func(call int, text string) (string, error)
}

func (f *fakeEngine) Name() string  { return f.name }
func (f *fakeEngine) Premium() bool { return f.premium }

func (f *fakeEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	call := f.calls
	f.calls++
	if f.respond != nil {
		return f.respond(call, text)
	}
	return "[" + target + "] " + text, nil
}

func newStageForTest(engine *fakeEngine, store *cache.Store) *Stage {
	s := New(engine, store, nil)
	s.sleep = func(time.Duration) {}
	return s
}

func slideDeck(slides ...deck.Slide) *deck.Deck {
	return &deck.Deck{SourceFile: "talk.json", Slides: slides}
}

func TestCopyThrough(t *testing.T) {
	cases := []struct {
		source, target string
		want           bool
	}{
		{"en", "en", true},
		{"en-US", "en", true},
		{"auto", "en", false},
		{"", "en", false},
		{"en", "tr", false},
	}
	for _, tc := range cases {
		if got := CopyThrough(tc.source, tc.target); got != tc.want {
			t.Errorf("CopyThrough(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
		}
	}
}

func TestCopyThroughSkipsEngine(t *testing.T) {
	engine := &fakeEngine{name: "google-web"}
	stage := newStageForTest(engine, nil)
	d := slideDeck(deck.Slide{
		Index:         1,
		RawText:       "hello world",
		NarrationText: "narrated hello",
		TextBlocks:    []string{"hello", "world"},
	})

	if err := stage.TranslateDeck(t.Context(), d, "en", "en"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine calls = %d, want 0", engine.calls)
	}
	if d.Slides[0].TranslatedText != "narrated hello" {
		t.Errorf("translated text = %q", d.Slides[0].TranslatedText)
	}
	if len(d.Slides[0].TranslatedBlocks) != 2 {
		t.Errorf("translated blocks = %v", d.Slides[0].TranslatedBlocks)
	}
}

func TestTranslateSlideAndBlocks(t *testing.T) {
	engine := &fakeEngine{name: "google-web"}
	stage := newStageForTest(engine, nil)
	d := slideDeck(deck.Slide{
		Index:         1,
		RawText:       "hello world",
		NarrationText: "narrated hello",
		TextBlocks:    []string{"first block", "", "second block"},
	})

	if err := stage.TranslateDeck(t.Context(), d, "en", "tr"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	slide := d.Slides[0]
	if slide.TranslatedText != "[tr] narrated hello" {
		t.Errorf("translated text = %q", slide.TranslatedText)
	}
	want := []string{"[tr] first block", "", "[tr] second block"}
	if len(slide.TranslatedBlocks) != len(want) {
		t.Fatalf("translated blocks = %v", slide.TranslatedBlocks)
	}
	for i := range want {
		if slide.TranslatedBlocks[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, slide.TranslatedBlocks[i], want[i])
		}
	}
	// Empty block must not reach the engine.
	if engine.calls != 3 {
		t.Errorf("engine calls = %d, want 3", engine.calls)
	}
}

func TestFailedSlideIsMarkedAndJobContinues(t *testing.T) {
	engine := &fakeEngine{
		name: "google-web",
		respond: func(call int, text string) (string, error) {
			if text == "second slide narration" {
				return "", errors.New("http 500: backend error")
			}
			return "ok: " + text, nil
		},
	}
	stage := newStageForTest(engine, nil)
	d := slideDeck(
		deck.Slide{Index: 1, RawText: "one", NarrationText: "first slide narration"},
		deck.Slide{Index: 2, RawText: "two", NarrationText: "second slide narration", TextBlocks: []string{"a block"}},
		deck.Slide{Index: 3, RawText: "three", NarrationText: "third slide narration"},
	)

	if err := stage.TranslateDeck(t.Context(), d, "en", "de"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if d.Slides[0].TranslatedText == "" || d.Slides[2].TranslatedText == "" {
		t.Error("healthy slides should keep their translations")
	}
	failed := d.Slides[1]
	if failed.TranslatedText != "" {
		t.Errorf("failed slide translation = %q, want empty", failed.TranslatedText)
	}
	if failed.TranslatedBlocks != nil {
		t.Errorf("failed slide blocks = %v, want nil", failed.TranslatedBlocks)
	}
	if failed.TranslationError == "" {
		t.Error("failed slide should carry the error message")
	}
}

func TestBlockFailureWipesSlideTranslation(t *testing.T) {
	engine := &fakeEngine{
		name: "google-web",
		respond: func(call int, text string) (string, error) {
			if text == "bad block" {
				return "", errors.New("timeout")
			}
			return "ok: " + text, nil
		},
	}
	stage := newStageForTest(engine, nil)
	d := slideDeck(deck.Slide{
		Index:         1,
		RawText:       "one",
		NarrationText: "slide narration",
		TextBlocks:    []string{"good block", "bad block"},
	})

	if err := stage.TranslateDeck(t.Context(), d, "en", "fr"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	slide := d.Slides[0]
	if slide.TranslatedText != "" || slide.TranslatedBlocks != nil {
		t.Errorf("partial translation should be wiped, got text=%q blocks=%v",
			slide.TranslatedText, slide.TranslatedBlocks)
	}
	if slide.TranslationError == "" {
		t.Error("slide should carry the block error")
	}
}

func TestRetriesWithGrowingBackoff(t *testing.T) {
	engine := &fakeEngine{
		name: "google-web",
		respond: func(call int, text string) (string, error) {
			if call < 2 {
				return "", errors.New("transient")
			}
			return "third time lucky", nil
		},
	}
	stage := New(engine, nil, nil)
	var waits []time.Duration
	stage.sleep = func(d time.Duration) { waits = append(waits, d) }
	d := slideDeck(deck.Slide{Index: 1, RawText: "one", NarrationText: "some narration"})

	if err := stage.TranslateDeck(t.Context(), d, "en", "it"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if d.Slides[0].TranslatedText != "third time lucky" {
		t.Errorf("translation = %q", d.Slides[0].TranslatedText)
	}
	if len(waits) != 2 || waits[0] != textBackoffUnit || waits[1] != 2*textBackoffUnit {
		t.Errorf("backoff waits = %v", waits)
	}
}

func TestCacheHitSkipsEngine(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer store.Close()

	engine := &fakeEngine{name: "deepl", premium: true}
	stage := newStageForTest(engine, store)
	d := slideDeck(deck.Slide{Index: 1, RawText: "one", NarrationText: "repeatable narration"})

	if err := stage.TranslateDeck(t.Context(), d, "en", "es"); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	firstCalls := engine.calls
	if firstCalls == 0 {
		t.Fatal("first pass should call the engine")
	}

	d2 := slideDeck(deck.Slide{Index: 1, RawText: "one", NarrationText: "repeatable narration"})
	if err := stage.TranslateDeck(t.Context(), d2, "en", "es"); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if engine.calls != firstCalls {
		t.Errorf("second pass engine calls = %d, want %d (cache hit)", engine.calls, firstCalls)
	}
	if d2.Slides[0].TranslatedText != d.Slides[0].TranslatedText {
		t.Errorf("cached translation differs: %q vs %q",
			d2.Slides[0].TranslatedText, d.Slides[0].TranslatedText)
	}
}

func TestEmptySlidePassesThrough(t *testing.T) {
	engine := &fakeEngine{name: "google-web"}
	stage := newStageForTest(engine, nil)
	d := slideDeck(deck.Slide{Index: 1, RawText: "   "})

	if err := stage.TranslateDeck(t.Context(), d, "en", "ru"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine calls = %d, want 0 for empty slide", engine.calls)
	}
	if d.Slides[0].TranslationError != "" {
		t.Errorf("empty slide should not be an error, got %q", d.Slides[0].TranslationError)
	}
}
