package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStylesCommandListsAllStyles(t *testing.T) {
	out, err := executeCommand(t, "styles")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	for _, key := range []string{"professional", "engaging (default)", "enthusiastic", "casual", "storyteller"} {
		if !strings.Contains(out, key) {
			t.Errorf("styles output missing %q:\n%s", key, out)
		}
	}
	for _, level := range []string{"off", "minimal", "normal", "detailed", "academic"} {
		if !strings.Contains(out, level) {
			t.Errorf("styles output missing enrichment level %q:\n%s", level, out)
		}
	}
}

func TestLanguagesCommandListsCodes(t *testing.T) {
	out, err := executeCommand(t, "languages")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	for _, want := range []string{"en", "Turkish", "Japanese", "zh"} {
		if !strings.Contains(out, want) {
			t.Errorf("languages output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	// A second init without --overwrite must refuse.
	if _, err := executeCommand(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, err := executeCommand(t, "--config", path, "config", "init", "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConvertRejectsUnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if _, err := executeCommand(t, "--config", cfgPath, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}

	_, err := executeCommand(t, "--config", cfgPath, "convert", "--language", "xx-klingon",
		filepath.Join(dir, "deck.json"))
	if err == nil || !strings.Contains(err.Error(), "unsupported language") {
		t.Fatalf("expected unsupported language error, got %v", err)
	}
}
