package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// legacyClient speaks the older generative-ai-go library.
type legacyClient struct {
	client *legacy.Client
	model  string
}

func newLegacyClient(ctx context.Context, cfg Config) (*legacyClient, error) {
	client, err := legacy.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create legacy genai client: %w", err)
	}
	model := strings.TrimSpace(cfg.LegacyModel)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &legacyClient{client: client, model: model}, nil
}

func (c *legacyClient) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)

	resp, err := model.GenerateContent(ctx, legacy.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("generate content: empty response")
	}
	return text, nil
}

func (c *legacyClient) Close() error { return c.client.Close() }

func extractText(resp *legacy.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(legacy.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
