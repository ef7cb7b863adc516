// Package transcript exports a narrated deck to a Word document for
// reviewing or distributing alongside the video.
package transcript

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"lectern/internal/deck"
	"lectern/internal/language"
)

const (
	fontName  = "Calibri"
	fontSize  = 11
	titleSize = 16
	slideSize = 13
)

// Write renders the deck's narration and translations into a docx at
// outputPath.
func Write(d *deck.Deck, targetLanguage, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("transcript: create document: %w", err)
	}

	title := strings.TrimSpace(d.SourceFile)
	if title == "" {
		title = "Presentation transcript"
	}
	heading(doc.AddParagraph(""), title, titleSize)
	body(doc.AddParagraph(""), fmt.Sprintf("%d slides, narrated in %s.",
		d.Len(), language.DisplayName(targetLanguage)))
	doc.AddParagraph("")

	for _, slide := range d.Slides {
		heading(doc.AddParagraph(""), fmt.Sprintf("Slide %d", slide.Index), slideSize)

		text := strings.TrimSpace(slide.EffectiveText())
		if text != "" {
			body(doc.AddParagraph(""), text)
		}
		if slide.TranslationError != "" {
			note(doc.AddParagraph(""), "Translation unavailable: "+slide.TranslationError)
		}
		doc.AddParagraph("")
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("transcript: save: %w", err)
	}
	return nil
}

func heading(p *docx.Paragraph, text string, size uint64) {
	p.AddText(text).Font(fontName).Size(size).Color("000000").Bold(true)
}

func body(p *docx.Paragraph, text string) {
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}

func note(p *docx.Paragraph, text string) {
	p.AddText(text).Font(fontName).Size(fontSize).Color("808080").Italic(true)
}
