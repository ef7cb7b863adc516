package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// deepL is the premium engine, used when an API key is configured.
type deepL struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newDeepL(apiKey, baseURL string, client *http.Client) *deepL {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api-free.deepl.com/v2/translate"
	}
	return &deepL{apiKey: apiKey, baseURL: baseURL, client: client}
}

func (d *deepL) Name() string  { return "deepl" }
func (d *deepL) Premium() bool { return true }

func (d *deepL) Translate(ctx context.Context, text, source, target string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(target))
	if source != "" && source != "auto" {
		form.Set("source_lang", strings.ToUpper(source))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("deepl read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepl: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("deepl parse response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", errors.New("deepl: empty translation payload")
	}
	return parsed.Translations[0].Text, nil
}
