package narrate

import (
	"fmt"
	"strings"

	"lectern/internal/textutil"
)

// SignOff is the exact closing sentence every presentation ends with.
const SignOff = "Thank you for your attention, and I will see you next week."

const (
	closerContextRunes = 100
	bodyContextRunes   = 150
)

// historyEntry records one generated narration for prompt context.
type historyEntry struct {
	index     int
	narration string
}

// buildPrompt produces the role-specific prompt for a slide. The first slide
// opens the presentation, the last slide closes it, and everything in between
// flows from the most recent narrations.
func buildPrompt(style Style, text string, index, total int, history []historyEntry) string {
	switch {
	case index == 1:
		return openerPrompt(style, text, total)
	case index == total:
		return closerPrompt(style, text, history)
	default:
		return bodyPrompt(style, text, index, total, history)
	}
}

func openerPrompt(style Style, text string, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the presenter starting a %d-slide presentation.\n", total)
	fmt.Fprintf(&b, "This is the Title Slide: %q\n\n", text)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Start with 'Good morning everyone' (or a similar warm welcome).\n")
	b.WriteString("2. Introduce the topic clearly.\n")
	b.WriteString("3. Give a brief 1-sentence hook about what we will cover.\n")
	fmt.Fprintf(&b, "Tone: %s", style.tone)
	return b.String()
}

func closerPrompt(style Style, text string, history []historyEntry) string {
	context := ""
	if len(history) > 0 {
		last := history[len(history)-1]
		context = fmt.Sprintf("Previous slide discussed: %s...",
			textutil.Head(last.narration, closerContextRunes))
	}

	var b strings.Builder
	b.WriteString("You are concluding a presentation. This is the Final Slide.\n")
	fmt.Fprintf(&b, "Context from previous slide: %s\n", context)
	fmt.Fprintf(&b, "Final Slide Content: %s\n\n", text)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Briefly summarize the main takeaway.\n")
	b.WriteString("2. Do NOT say 'Good morning' or introduce yourself.\n")
	fmt.Fprintf(&b, "3. End with this exact sign-off: %q\n", SignOff)
	fmt.Fprintf(&b, "Tone: %s", style.tone)
	return b.String()
}

func bodyPrompt(style Style, text string, index, total int, history []historyEntry) string {
	var contextItems []string
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, prev := range history[start:] {
		contextItems = append(contextItems, fmt.Sprintf("Slide %d ended with: ...%s",
			prev.index, textutil.Tail(prev.narration, bodyContextRunes)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are narrating slide %d of %d (Middle of presentation).\n\n", index, total)
	fmt.Fprintf(&b, "PREVIOUS CONTEXT (flow from this):\n%s\n\n", strings.Join(contextItems, "\n"))
	fmt.Fprintf(&b, "CURRENT SLIDE CONTENT:\n%s\n\n", text)
	b.WriteString("STRICT INSTRUCTIONS:\n")
	b.WriteString("1. Do NOT say 'Good morning', 'Hello', or 'Welcome' again.\n")
	b.WriteString("2. Do NOT introduce yourself.\n")
	b.WriteString("3. Use a transition phrase (e.g., 'Moving on...', 'Furthermore...', 'As we can see here...') to connect to the previous context.\n")
	b.WriteString("4. Explain the current slide content naturally.\n")
	fmt.Fprintf(&b, "Tone: %s", style.tone)
	return b.String()
}
