// Package textutil holds small text helpers shared by the pipeline stages.
package textutil

import (
	"regexp"
	"strings"
)

// slideNumberLine matches lines containing only a slide-number token such as
// "2", "12.", or "4)". Such artifacts read poorly when spoken aloud.
var slideNumberLine = regexp.MustCompile(`^\s*\d+\s*[.)]?\s*$`)

// StripLeadingSlideNumbers removes leading lines that are purely slide-number
// tokens and trims leading whitespace from what remains.
func StripLeadingSlideNumbers(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && slideNumberLine.MatchString(lines[0]) {
		lines = lines[1:]
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), " \t\r\n")
}

// Truncate limits text to max runes, appending an ellipsis when shortened.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Tail returns the trailing max runes of text.
func Tail(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[len(runes)-max:])
}

// Head returns the leading max runes of text.
func Head(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// FirstLine returns the first non-empty line of text, trimmed.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
