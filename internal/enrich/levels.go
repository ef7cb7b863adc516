package enrich

import (
	"fmt"
	"strings"
)

// Level controls how much supporting material is added to slide text before
// narration.
type Level struct {
	Name        string
	Description string
	Temperature float32
	directive   string
}

var levels = []Level{
	{
		Name:        "off",
		Description: "No enrichment, slides narrate as written",
	},
	{
		Name:        "minimal",
		Description: "Light touch, brief clarifications only",
		Temperature: 0.3,
		directive:   "Add only brief clarifications where a term would otherwise be unclear. Keep the text close to its original length.",
	},
	{
		Name:        "normal",
		Description: "Balanced additions of context and examples",
		Temperature: 0.5,
		directive:   "Add helpful context and one concrete example where it aids understanding. Expand the text moderately.",
	},
	{
		Name:        "detailed",
		Description: "Thorough explanations with examples",
		Temperature: 0.6,
		directive:   "Explain each point thoroughly with examples and connections between ideas. A substantial expansion is expected.",
	},
	{
		Name:        "academic",
		Description: "Scholarly depth with terminology and background",
		Temperature: 0.6,
		directive:   "Treat the material with scholarly depth: precise terminology, background theory, and references to established concepts where relevant.",
	},
}

// Levels returns the enrichment levels in presentation order.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelByName resolves name to a Level, case-insensitively.
func LevelByName(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range levels {
		if l.Name == name {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("unknown enrichment level %q", name)
}
