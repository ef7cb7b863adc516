package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDocumentForm(t *testing.T) {
	data := []byte(`{
		"source_file": "intro.pptx",
		"slides": [
			{"slide_number": 2, "text": "Second", "text_blocks": ["Second"]},
			{"slide_number": 1, "text": "First", "text_blocks": ["First", "subtitle"]}
		]
	}`)
	d, err := Parse(data, "fallback.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.SourceFile != "intro.pptx" {
		t.Fatalf("unexpected source: %q", d.SourceFile)
	}
	if d.Len() != 2 || d.Slides[0].Index != 1 || d.Slides[1].Index != 2 {
		t.Fatalf("slides not ordered by number: %+v", d.Slides)
	}
	if len(d.Slides[0].TextBlocks) != 2 {
		t.Fatalf("blocks lost: %+v", d.Slides[0])
	}
}

func TestParseBareArrayForm(t *testing.T) {
	data := []byte(`[{"slide_number": 1, "text": "Only", "text_blocks": []}]`)
	d, err := Parse(data, "deck.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.SourceFile != "deck.json" {
		t.Fatalf("source fallback not applied: %q", d.SourceFile)
	}
}

func TestParseRejectsDuplicatesAndEmpty(t *testing.T) {
	if _, err := Parse([]byte(`{"slides": []}`), ""); err == nil {
		t.Fatal("expected error for empty deck")
	}
	dup := []byte(`[{"slide_number":1,"text":"a"},{"slide_number":1,"text":"b"}]`)
	if _, err := Parse(dup, ""); err == nil {
		t.Fatal("expected error for duplicate slide numbers")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	if err := os.WriteFile(path, []byte(`[{"slide_number":1,"text":"hello"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Slides[0].RawText != "hello" {
		t.Fatalf("unexpected text: %q", d.Slides[0].RawText)
	}
}

func TestEffectiveTextFallbackChain(t *testing.T) {
	s := &Slide{Index: 4}
	if got := s.EffectiveText(); got != "Slide 4" {
		t.Fatalf("placeholder fallback broken: %q", got)
	}
	s.RawText = "raw"
	if got := s.EffectiveText(); got != "raw" {
		t.Fatalf("raw fallback broken: %q", got)
	}
	s.EnrichedText = "enriched"
	if got := s.EffectiveText(); got != "enriched" {
		t.Fatalf("enriched fallback broken: %q", got)
	}
	s.NarrationText = "narrated"
	if got := s.EffectiveText(); got != "narrated" {
		t.Fatalf("narration fallback broken: %q", got)
	}
	s.TranslatedText = "translated"
	if got := s.EffectiveText(); got != "translated" {
		t.Fatalf("translated text should win: %q", got)
	}
}

func TestPreNarrationText(t *testing.T) {
	s := &Slide{RawText: "raw"}
	if got := s.PreNarrationText(); got != "raw" {
		t.Fatalf("unexpected: %q", got)
	}
	s.EnrichedText = "  "
	if got := s.PreNarrationText(); got != "raw" {
		t.Fatalf("whitespace enrichment must not win: %q", got)
	}
	s.EnrichedText = "rich"
	if got := s.PreNarrationText(); got != "rich" {
		t.Fatalf("unexpected: %q", got)
	}
}
