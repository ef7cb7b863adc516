package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// genaiClient speaks the current google.golang.org/genai library.
type genaiClient struct {
	client *genai.Client
	model  string
}

func newGenAIClient(ctx context.Context, cfg Config) (*genaiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &genaiClient{client: client, model: model}, nil
}

func (c *genaiClient) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("generate content: empty response")
	}
	return text, nil
}

func (c *genaiClient) Close() error { return nil }
