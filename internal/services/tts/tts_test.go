package tts

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectPremiumWithKey(t *testing.T) {
	primary, secondary := Select(Config{
		VoiceEngine:  "premium",
		GoogleAPIKey: "key-123",
	})
	if primary.Name() != "cloud-voice" {
		t.Fatalf("expected cloud-voice primary, got %s", primary.Name())
	}
	if secondary == nil || secondary.Name() != "espeak" {
		t.Fatalf("expected espeak secondary, got %v", secondary)
	}
}

func TestSelectPremiumWithoutKeyFallsToFree(t *testing.T) {
	primary, _ := Select(Config{VoiceEngine: "premium"})
	if primary.Name() != "google-tts" {
		t.Fatalf("expected google-tts primary without key, got %s", primary.Name())
	}
}

func TestSelectDisableFallback(t *testing.T) {
	_, secondary := Select(Config{VoiceEngine: "free", DisableFallback: true})
	if secondary != nil {
		t.Fatalf("expected nil secondary, got %s", secondary.Name())
	}
}

func TestCloudVoiceSynthesize(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	var gotVoice struct {
		Voice struct {
			LanguageCode string `json:"languageCode"`
			SSMLGender   string `json:"ssmlGender"`
		} `json:"voice"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "key-123" {
			t.Errorf("missing api key in query: %s", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotVoice); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(audio),
		})
	}))
	defer server.Close()

	engine := newCloudVoice("key-123", "male", server.URL, server.Client())
	out := filepath.Join(t.TempDir(), "slide_001.mp3")
	if err := engine.Synthesize(t.Context(), "hello there", "ja", out); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotVoice.Voice.LanguageCode != "ja-JP" {
		t.Errorf("language code = %q, want ja-JP", gotVoice.Voice.LanguageCode)
	}
	if gotVoice.Voice.SSMLGender != "MALE" {
		t.Errorf("gender = %q, want MALE", gotVoice.Voice.SSMLGender)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if string(written) != string(audio) {
		t.Errorf("asset bytes do not match response audio")
	}
}

func TestCloudVoiceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key not valid", http.StatusForbidden)
	}))
	defer server.Close()

	engine := newCloudVoice("bad", "female", server.URL, server.Client())
	err := engine.Synthesize(t.Context(), "hello", "en", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("expected error for http 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGoogleTTSChunksLongText(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("client") != "tw-ob" {
			t.Errorf("client param = %q", r.URL.Query().Get("client"))
		}
		if r.URL.Query().Get("tl") != "jp" {
			t.Errorf("tl param = %q, want jp", r.URL.Query().Get("tl"))
		}
		requests = append(requests, r.URL.Query().Get("q"))
		w.Write([]byte("seg:"))
	}))
	defer server.Close()

	long := strings.Repeat("word ", 100) // well past one chunk
	engine := newGoogleTTS(server.URL, server.Client())
	out := filepath.Join(t.TempDir(), "slide_002.mp3")
	if err := engine.Synthesize(t.Context(), long, "ja", out); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(requests) < 2 {
		t.Fatalf("expected multiple chunk requests, got %d", len(requests))
	}
	for _, q := range requests {
		if n := len([]rune(q)); n > chunkLimit {
			t.Errorf("chunk of %d runes exceeds limit %d", n, chunkLimit)
		}
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if got, want := len(written), len(requests)*4; got != want {
		t.Errorf("asset size = %d, want %d concatenated segments", got, want)
	}
}

func TestGoogleTTSEmptyText(t *testing.T) {
	engine := newGoogleTTS("http://unused.invalid", http.DefaultClient)
	err := engine.Synthesize(t.Context(), "   ", "en", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestChunkTextBoundaries(t *testing.T) {
	chunks := chunkText("alpha beta gamma", 11)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %v, want 2", chunks)
	}
	if chunks[0] != "alpha beta" || chunks[1] != "gamma" {
		t.Errorf("chunks = %v", chunks)
	}

	oversized := chunkText(strings.Repeat("x", 25), 10)
	if len(oversized) != 3 {
		t.Fatalf("oversized token chunks = %v, want 3", oversized)
	}
}
