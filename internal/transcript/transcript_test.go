package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/deck"
)

func TestWriteProducesDocument(t *testing.T) {
	d := &deck.Deck{
		SourceFile: "lecture.pptx",
		Slides: []deck.Slide{
			{Index: 1, RawText: "Title", NarrationText: "Good morning everyone."},
			{Index: 2, RawText: "Body", TranslatedText: "Übersetzter Text."},
			{Index: 3, RawText: "Broken", TranslationError: "engine unavailable"},
		},
	}
	path := filepath.Join(t.TempDir(), "lecture_transcript.docx")

	if err := Write(d, "de", path); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("transcript missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("transcript is empty")
	}
}

func TestWriteEmptyDeck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty_transcript.docx")
	if err := Write(&deck.Deck{}, "en", path); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("transcript missing: %v", err)
	}
}
