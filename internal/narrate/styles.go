package narrate

import (
	"fmt"
	"strings"
)

// Style shapes the voice of the generated narration.
type Style struct {
	Key         string
	Name        string
	Description string
	Temperature float32
	tone        string
}

var styles = []Style{
	{
		Key:         "professional",
		Name:        "Professional Lecturer",
		Description: "Formal, academic tone suitable for business and educational presentations",
		Temperature: 0.5,
		tone:        "formal and professional, like a university professor or corporate trainer",
	},
	{
		Key:         "engaging",
		Name:        "Engaging Teacher",
		Description: "Conversational and friendly, like your favorite teacher explaining concepts",
		Temperature: 0.7,
		tone:        "conversational and engaging, like a favorite teacher who makes learning fun",
	},
	{
		Key:         "enthusiastic",
		Name:        "Enthusiastic Presenter",
		Description: "Energetic and passionate, great for motivational or sales presentations",
		Temperature: 0.8,
		tone:        "highly energetic and passionate, using vivid language and excitement",
	},
	{
		Key:         "casual",
		Name:        "Casual Explainer",
		Description: "Relaxed and friendly, using simple language and everyday analogies",
		Temperature: 0.7,
		tone:        "relaxed and friendly, using simple everyday language and relatable examples",
	},
	{
		Key:         "storyteller",
		Name:        "Story Teller",
		Description: "Narrative style that weaves information into a compelling story",
		Temperature: 0.8,
		tone:        "narrative and story-driven, connecting ideas into a flowing story",
	},
}

// DefaultStyle is used when no style is configured.
const DefaultStyle = "engaging"

// Styles returns the narration styles in presentation order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// StyleByKey resolves key to a Style, case-insensitively.
func StyleByKey(key string) (Style, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, s := range styles {
		if s.Key == key {
			return s, nil
		}
	}
	return Style{}, fmt.Errorf("unknown narration style %q", key)
}
