// Package deck holds the per-slide records threaded through every pipeline
// stage. A Deck is created once from extraction output, mutated in place by
// the stages in sequence, and serialized to the job artifact at stage
// boundaries.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Slide is the per-slide unit of data carried through the pipeline. Index
// and RawText are immutable once set; stages fill in their own fields.
type Slide struct {
	// Index is the 1-based slide position, stable for the job's lifetime.
	Index int
	// RawText is the extracted source text.
	RawText string
	// TextBlocks are the paragraph-level fragments in visual order. Length
	// and order must survive translation so block substitution stays aligned.
	TextBlocks []string
	// EnrichedText is set only when enrichment ran and succeeded.
	EnrichedText string
	// NarrationText is the narration stage output, or the pre-narration text
	// when narration failed or was skipped.
	NarrationText string
	// TranslatedText is empty when translation failed for this slide; the
	// failure cause is recorded in TranslationError.
	TranslatedText   string
	TranslatedBlocks []string
	TranslationError string
	// AudioPath and AudioDuration are set by the synthesis stage. The
	// duration is always positive after synthesis, even on failure.
	AudioPath     string
	AudioDuration float64
}

// PreNarrationText is the narration stage's input: the enriched text when
// enrichment produced one, otherwise the raw text.
func (s *Slide) PreNarrationText() string {
	if strings.TrimSpace(s.EnrichedText) != "" {
		return s.EnrichedText
	}
	return s.RawText
}

// NarrationOrFallback resolves narration → enriched → raw.
func (s *Slide) NarrationOrFallback() string {
	if strings.TrimSpace(s.NarrationText) != "" {
		return s.NarrationText
	}
	return s.PreNarrationText()
}

// EffectiveText resolves the fallback chain
// translated → narrated → enriched → raw → "Slide N", guaranteeing a
// non-empty result for every slide.
func (s *Slide) EffectiveText() string {
	for _, candidate := range []string{s.TranslatedText, s.NarrationText, s.EnrichedText, s.RawText} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return fmt.Sprintf("Slide %d", s.Index)
}

// Deck is the ordered in-memory slide store shared by all stages.
type Deck struct {
	SourceFile string
	Slides     []Slide
}

// Len returns the slide count.
func (d *Deck) Len() int { return len(d.Slides) }

// extractionSlide is the wire shape produced by the external extraction
// collaborator, one object per slide.
type extractionSlide struct {
	SlideNumber int      `json:"slide_number"`
	Text        string   `json:"text"`
	TextBlocks  []string `json:"text_blocks"`
}

type extractionDocument struct {
	SourceFile string            `json:"source_file"`
	Slides     []extractionSlide `json:"slides"`
}

// Load reads an extraction JSON document and builds the ordered deck.
// Slides are sorted by slide number and re-checked for uniqueness; the
// extraction contract is 1-based contiguous numbering but duplicates would
// silently corrupt stage alignment, so they are rejected here.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extraction file: %w", err)
	}
	return Parse(data, path)
}

// Parse builds a deck from extraction JSON bytes. sourceName seeds
// Deck.SourceFile when the document carries no source_file field.
func Parse(data []byte, sourceName string) (*Deck, error) {
	var doc extractionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		// Tolerate the bare-array form: [{"slide_number":1,...},...]
		if arrErr := json.Unmarshal(data, &doc.Slides); arrErr != nil {
			return nil, fmt.Errorf("parse extraction document: %w", err)
		}
	}
	if len(doc.Slides) == 0 {
		return nil, fmt.Errorf("extraction document contains no slides")
	}

	sort.SliceStable(doc.Slides, func(i, j int) bool {
		return doc.Slides[i].SlideNumber < doc.Slides[j].SlideNumber
	})

	d := &Deck{SourceFile: doc.SourceFile}
	if d.SourceFile == "" {
		d.SourceFile = sourceName
	}

	seen := make(map[int]bool, len(doc.Slides))
	for i, raw := range doc.Slides {
		index := raw.SlideNumber
		if index <= 0 {
			index = i + 1
		}
		if seen[index] {
			return nil, fmt.Errorf("duplicate slide number %d", index)
		}
		seen[index] = true
		d.Slides = append(d.Slides, Slide{
			Index:      index,
			RawText:    raw.Text,
			TextBlocks: append([]string(nil), raw.TextBlocks...),
		})
	}
	return d, nil
}
