package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"lectern/internal/language"
)

// chunkLimit is the longest query the public endpoint accepts per request.
const chunkLimit = 200

// googleTTS is the free engine: the public translate_tts endpoint used by
// the Translate web client. Longer text is split on word boundaries and
// the MP3 segments are concatenated, which players handle fine.
type googleTTS struct {
	baseURL string
	client  *http.Client
}

func newGoogleTTS(baseURL string, client *http.Client) *googleTTS {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://translate.google.com/translate_tts"
	}
	return &googleTTS{baseURL: baseURL, client: client}
}

func (g *googleTTS) Name() string { return "google-tts" }

func (g *googleTTS) Synthesize(ctx context.Context, text, lang, outPath string) error {
	chunks := chunkText(text, chunkLimit)
	if len(chunks) == 0 {
		return fmt.Errorf("google-tts: nothing to synthesize")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("google-tts create asset: %w", err)
	}
	defer out.Close()

	code := language.SpeechCode(lang)
	for _, chunk := range chunks {
		audio, err := g.fetch(ctx, chunk, code)
		if err != nil {
			return err
		}
		if _, err := out.Write(audio); err != nil {
			return fmt.Errorf("google-tts write asset: %w", err)
		}
	}
	return nil
}

func (g *googleTTS) fetch(ctx context.Context, text, code string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", code)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google-tts request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google-tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google-tts: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("google-tts read body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("google-tts: empty audio response")
	}
	return audio, nil
}

// chunkText splits text into runs no longer than limit runes, preferring
// word boundaries so the voice does not break mid-word.
func chunkText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	words := strings.Fields(text)
	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, word := range words {
		wordLen := len([]rune(word))
		if wordLen > limit {
			// A single oversized token gets hard-split.
			if currentLen > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
				currentLen = 0
			}
			runes := []rune(word)
			for len(runes) > limit {
				chunks = append(chunks, string(runes[:limit]))
				runes = runes[limit:]
			}
			current.WriteString(string(runes))
			currentLen = len(runes)
			continue
		}
		needed := wordLen
		if currentLen > 0 {
			needed++
		}
		if currentLen+needed > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
