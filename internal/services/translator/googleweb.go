package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// googleWeb is the free engine: the public translate endpoint, no key needed.
type googleWeb struct {
	baseURL string
	client  *http.Client
}

func newGoogleWeb(baseURL string, client *http.Client) *googleWeb {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://translate.googleapis.com/translate_a/single"
	}
	return &googleWeb{baseURL: baseURL, client: client}
}

func (g *googleWeb) Name() string  { return "google-web" }
func (g *googleWeb) Premium() bool { return false }

func (g *googleWeb) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("google-web request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google-web request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("google-web read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google-web: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return parseGoogleWebPayload(body)
}

// parseGoogleWebPayload decodes the endpoint's nested-array response:
// [[["translated","original",...],...],...]. Segment translations are
// concatenated in order.
func parseGoogleWebPayload(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("google-web parse response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("google-web: empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("google-web parse segments: %w", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var translated string
		if err := json.Unmarshal(segment[0], &translated); err != nil {
			continue
		}
		b.WriteString(translated)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("google-web: no translated segments in response")
	}
	return b.String(), nil
}
