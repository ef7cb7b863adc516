package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/deck"
)

// NewDeck builds an in-memory deck with one slide per text, numbered from 1.
func NewDeck(t testing.TB, texts ...string) *deck.Deck {
	t.Helper()
	d := &deck.Deck{SourceFile: "lecture.pptx"}
	for i, text := range texts {
		d.Slides = append(d.Slides, deck.Slide{Index: i + 1, RawText: text})
	}
	return d
}

// WriteExtraction writes an extraction JSON document for texts and returns
// its path.
func WriteExtraction(t testing.TB, texts ...string) string {
	t.Helper()

	type slide struct {
		SlideNumber int      `json:"slide_number"`
		Text        string   `json:"text"`
		TextBlocks  []string `json:"text_blocks,omitempty"`
	}
	doc := struct {
		SourceFile string  `json:"source_file"`
		Slides     []slide `json:"slides"`
	}{SourceFile: "lecture.pptx"}
	for i, text := range texts {
		doc.Slides = append(doc.Slides, slide{SlideNumber: i + 1, Text: text})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal extraction: %v", err)
	}
	path := filepath.Join(t.TempDir(), "lecture.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write extraction: %v", err)
	}
	return path
}
