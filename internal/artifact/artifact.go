// Package artifact reads and writes the per-job JSON document that records
// every slide's text, narration, translation, and audio. The document is
// what later stages and external tooling consume, so its field names are
// part of the pipeline's contract.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lectern/internal/deck"
)

// SlideEntry is one slide's record in the document.
type SlideEntry struct {
	SlideNumber      int      `json:"slide_number"`
	OriginalText     string   `json:"original_text"`
	NarrationText    string   `json:"narration_text,omitempty"`
	EnrichedText     string   `json:"enriched_text,omitempty"`
	TranslatedText   string   `json:"translated_text"`
	TranslationError string   `json:"translation_error,omitempty"`
	OriginalBlocks   []string `json:"original_blocks,omitempty"`
	TranslatedBlocks []string `json:"translated_blocks,omitempty"`
	AudioFile        string   `json:"audio_file,omitempty"`
	Duration         float64  `json:"duration,omitempty"`
}

// Document is the full per-job record.
type Document struct {
	SourceFile      string       `json:"source_file"`
	TargetLanguage  string       `json:"target_language"`
	NarrationStyle  string       `json:"narration_style,omitempty"`
	EnrichmentLevel string       `json:"enrichment_level,omitempty"`
	TranslationDate string       `json:"translation_date"`
	TotalSlides     int          `json:"total_slides"`
	Slides          []SlideEntry `json:"slides"`
}

// FromDeck snapshots a deck into a Document.
func FromDeck(d *deck.Deck, targetLanguage, style, enrichmentLevel string) *Document {
	doc := &Document{
		SourceFile:      d.SourceFile,
		TargetLanguage:  targetLanguage,
		NarrationStyle:  style,
		EnrichmentLevel: enrichmentLevel,
		TranslationDate: time.Now().UTC().Format(time.RFC3339),
		TotalSlides:     d.Len(),
	}
	for _, slide := range d.Slides {
		doc.Slides = append(doc.Slides, SlideEntry{
			SlideNumber:      slide.Index,
			OriginalText:     slide.RawText,
			NarrationText:    slide.NarrationText,
			EnrichedText:     slide.EnrichedText,
			TranslatedText:   slide.TranslatedText,
			TranslationError: slide.TranslationError,
			OriginalBlocks:   slide.TextBlocks,
			TranslatedBlocks: slide.TranslatedBlocks,
			AudioFile:        slide.AudioPath,
			Duration:         slide.AudioDuration,
		})
	}
	return doc
}

// ApplyToDeck copies per-slide audio results from the document back onto the
// deck, matching by slide number.
func (doc *Document) ApplyToDeck(d *deck.Deck) {
	byNumber := make(map[int]*SlideEntry, len(doc.Slides))
	for i := range doc.Slides {
		byNumber[doc.Slides[i].SlideNumber] = &doc.Slides[i]
	}
	for i := range d.Slides {
		if entry, ok := byNumber[d.Slides[i].Index]; ok {
			d.Slides[i].AudioPath = entry.AudioFile
			d.Slides[i].AudioDuration = entry.Duration
		}
	}
}

// Save writes the document as indented JSON.
func (doc *Document) Save(path string) error {
	sort.Slice(doc.Slides, func(i, j int) bool {
		return doc.Slides[i].SlideNumber < doc.Slides[j].SlideNumber
	})
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads a document previously written by Save.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// WithAudioPath derives the staged document name written after the speech
// stage, alongside basePath.
func WithAudioPath(basePath string) string {
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(basePath, ext)
	if ext == "" {
		ext = ".json"
	}
	return stem + "_with_audio" + ext
}
