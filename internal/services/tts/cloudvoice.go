package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"lectern/internal/language"
)

// cloudVoice is the premium engine: the Cloud Text-to-Speech REST API.
type cloudVoice struct {
	apiKey  string
	gender  string
	baseURL string
	client  *http.Client
}

func newCloudVoice(apiKey, gender, baseURL string, client *http.Client) *cloudVoice {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://texttospeech.googleapis.com/v1/text:synthesize"
	}
	gender = strings.ToUpper(strings.TrimSpace(gender))
	if gender != "MALE" && gender != "FEMALE" {
		gender = "FEMALE"
	}
	return &cloudVoice{apiKey: apiKey, gender: gender, baseURL: baseURL, client: client}
}

func (c *cloudVoice) Name() string { return "cloud-voice" }

func (c *cloudVoice) Synthesize(ctx context.Context, text, lang, outPath string) error {
	payload, err := json.Marshal(map[string]any{
		"input": map[string]string{"text": text},
		"voice": map[string]string{
			"languageCode": language.CloudVoiceCode(lang),
			"ssmlGender":   c.gender,
		},
		"audioConfig": map[string]string{"audioEncoding": "MP3"},
	})
	if err != nil {
		return fmt.Errorf("cloud-voice encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("cloud-voice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloud-voice request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("cloud-voice read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloud-voice: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("cloud-voice parse response: %w", err)
	}
	if parsed.AudioContent == "" {
		return errors.New("cloud-voice: empty audio content")
	}
	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return fmt.Errorf("cloud-voice decode audio: %w", err)
	}
	if err := os.WriteFile(outPath, audio, 0o644); err != nil {
		return fmt.Errorf("cloud-voice write asset: %w", err)
	}
	return nil
}
