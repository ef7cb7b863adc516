package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks errors caused by missing or invalid configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks errors caused by unusable input data.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks failures of external binaries (ffmpeg, ffprobe, espeak-ng).
	ErrExternalTool = errors.New("external tool error")
	// ErrCritical marks auth/permission/invalid-request class engine errors.
	// A critical narration error disables narration for the rest of the job.
	ErrCritical = errors.New("critical engine error")
	// ErrRateLimited marks quota/resource-exhaustion engine errors.
	ErrRateLimited = errors.New("rate limited")
	// ErrTransient marks retryable failures with no specific classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// criticalSignals are the API error fragments that indicate the key or the
// request itself is bad; retrying cannot help.
var criticalSignals = []string{
	"http 400",
	"http 403",
	"code: 400",
	"code: 403",
	"error 400",
	"error 403",
	"permission_denied",
	"permissiondenied",
	"api_key_invalid",
	"api key expired",
	"api key not valid",
	"invalid_argument",
	"unauthenticated",
}

// rateLimitSignals indicate quota exhaustion; retrying after a backoff may help.
var rateLimitSignals = []string{
	"http 429",
	"code: 429",
	"error 429",
	"resource_exhausted",
	"resourceexhausted",
	"quota exceeded",
	"rate limit",
	"too many requests",
}

// IsCritical reports whether the error belongs to the auth/permission/
// invalid-request class that trips the narration circuit breaker.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCritical) {
		return true
	}
	return containsAny(err.Error(), criticalSignals)
}

// IsRateLimited reports whether the error signals quota exhaustion.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return containsAny(err.Error(), rateLimitSignals)
}

func containsAny(message string, signals []string) bool {
	message = strings.ToLower(message)
	for _, signal := range signals {
		if strings.Contains(message, signal) {
			return true
		}
	}
	return false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
