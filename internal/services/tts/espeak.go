package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"lectern/internal/language"
)

// espeak shells out to espeak-ng as the offline fallback voice.
type espeak struct {
	binary string
}

func newEspeak(binary string) *espeak {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "espeak-ng"
	}
	return &espeak{binary: binary}
}

func (e *espeak) Name() string { return "espeak" }

func (e *espeak) Synthesize(ctx context.Context, text, lang, outPath string) error {
	cmd := exec.CommandContext(ctx, e.binary,
		"-v", language.SpeechCode(lang),
		"-w", outPath,
		text,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("espeak: %w: %s", err, detail)
		}
		return fmt.Errorf("espeak: %w", err)
	}
	return nil
}
