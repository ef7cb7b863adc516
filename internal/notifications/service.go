package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lectern/internal/language"
)

const userAgent = "Lectern-Go/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyJobStarted(ctx context.Context, sourceFile, targetLanguage string) error
	NotifyJobCompleted(ctx context.Context, sourceFile, outputPath string, translated, total int, duration time.Duration) error
	NotifyJobFailed(ctx context.Context, sourceFile string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(topic string, timeoutSeconds int) Service {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type noopService struct{}

func (noopService) NotifyJobStarted(context.Context, string, string) error { return nil }
func (noopService) NotifyJobCompleted(context.Context, string, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyJobFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyJobStarted(ctx context.Context, sourceFile, targetLanguage string) error {
	sourceFile = strings.TrimSpace(sourceFile)
	data := payload{
		title: "Lectern - Conversion Started",
		message: fmt.Sprintf("Started converting %s to %s", sourceFile,
			language.DisplayName(targetLanguage)),
		tags: []string{"lectern", "job", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, sourceFile, outputPath string, translated, total int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if translated == total {
		title = "Lectern - Conversion Complete"
		message = fmt.Sprintf("%s ready: %d/%d slides translated in %s", strings.TrimSpace(sourceFile), translated, total, duration)
	} else {
		title = "Lectern - Conversion Complete (with errors)"
		message = fmt.Sprintf("%s ready: %d/%d slides translated in %s, the rest kept their original text",
			strings.TrimSpace(sourceFile), translated, total, duration)
	}
	if outputPath = strings.TrimSpace(outputPath); outputPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, outputPath)
	}

	data := payload{
		title:    title,
		message:  message,
		tags:     []string{"lectern", "job", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, sourceFile string, cause error) error {
	var builder strings.Builder
	builder.WriteString("Conversion failed")
	if sourceFile = strings.TrimSpace(sourceFile); sourceFile != "" {
		builder.WriteString(" for ")
		builder.WriteString(sourceFile)
	}
	builder.WriteString(": ")
	if cause != nil {
		builder.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Lectern - Error",
		message:  builder.String(),
		tags:     []string{"lectern", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Lectern - Test",
		message:  "Notification system test",
		tags:     []string{"lectern", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
