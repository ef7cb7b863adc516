package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// libre is the last-resort engine: a public LibreTranslate instance.
type libre struct {
	baseURL string
	client  *http.Client
}

func newLibre(baseURL string, client *http.Client) *libre {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://libretranslate.com/translate"
	}
	return &libre{baseURL: baseURL, client: client}
}

func (l *libre) Name() string  { return "libretranslate" }
func (l *libre) Premium() bool { return false }

func (l *libre) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	payload, err := json.Marshal(map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	})
	if err != nil {
		return "", fmt.Errorf("libretranslate encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("libretranslate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("libretranslate read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("libretranslate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("libretranslate parse response: %w", err)
	}
	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return "", errors.New("libretranslate: empty translation payload")
	}
	return parsed.TranslatedText, nil
}
