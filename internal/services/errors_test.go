package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	err := Wrap(ErrCritical, "narration", "generate", "slide 3", errors.New("boom"))
	if !errors.Is(err, ErrCritical) {
		t.Fatalf("expected critical marker: %v", err)
	}
	if got := err.Error(); got == "" {
		t.Fatal("expected non-empty message")
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "speech", "synthesize", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker: %v", err)
	}
}

func TestIsCriticalDetectsAPISignals(t *testing.T) {
	cases := []string{
		"googleapi: Error 403: PERMISSION_DENIED",
		"generate content: http 400: INVALID_ARGUMENT",
		"API key expired. Please renew the API key.",
		"rpc error: code = Unauthenticated desc = API_KEY_INVALID",
	}
	for _, message := range cases {
		if !IsCritical(fmt.Errorf("%s", message)) {
			t.Errorf("expected critical for %q", message)
		}
	}
	if IsCritical(errors.New("connection reset by peer")) {
		t.Error("network error misclassified as critical")
	}
	if IsCritical(nil) {
		t.Error("nil error classified as critical")
	}
}

func TestIsRateLimitedDetectsQuotaSignals(t *testing.T) {
	cases := []string{
		"http 429: Too Many Requests",
		"rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED",
		"quota exceeded for model",
	}
	for _, message := range cases {
		if !IsRateLimited(fmt.Errorf("%s", message)) {
			t.Errorf("expected rate-limited for %q", message)
		}
	}
	if IsRateLimited(errors.New("http 403 forbidden")) {
		t.Error("critical error misclassified as rate-limited")
	}
}

func TestRateLimitAndCriticalAreDisjointForSentinels(t *testing.T) {
	err := Wrap(ErrRateLimited, "translation", "translate", "", nil)
	if IsCritical(err) {
		t.Fatalf("rate-limited error should not be critical: %v", err)
	}
	if !IsRateLimited(err) {
		t.Fatalf("expected rate-limited: %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithJobID(t.Context(), "job-1")
	ctx = WithStage(ctx, "enrichment")

	if id, ok := JobIDFromContext(ctx); !ok || id != "job-1" {
		t.Fatalf("job id round trip failed: %q %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "enrichment" {
		t.Fatalf("stage round trip failed: %q %v", stage, ok)
	}
	if _, ok := JobIDFromContext(t.Context()); ok {
		t.Fatal("empty context should not carry a job id")
	}
}
