package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Skufu/holistic-guidance/internal/config"
	"github.com/Skufu/holistic-guidance/internal/provider"
)

func TestNewCompleterSelectsProvider(t *testing.T) {
	c, err := newCompleter(context.Background(), &config.Config{
		Provider:        config.ProviderOpenAI,
		OpenAIBaseURL:   "https://api.openai.com/v1",
		ProviderTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*provider.OpenAI); !ok {
		t.Fatalf("expected OpenAI completer, got %T", c)
	}

	c, err = newCompleter(context.Background(), &config.Config{
		Provider:        config.ProviderGemini,
		GeminiAPIKey:    "test-key",
		ProviderTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*provider.Gemini); !ok {
		t.Fatalf("expected Gemini completer, got %T", c)
	}
}

func TestNewCompleterGeminiWithoutKey(t *testing.T) {
	if _, err := newCompleter(context.Background(), &config.Config{Provider: config.ProviderGemini}); err == nil {
		t.Fatal("expected error for missing Gemini key")
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := newLogger("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDetectStaticRoot(t *testing.T) {
	root := t.TempDir()
	public := filepath.Join(root, "public")
	if err := os.MkdirAll(public, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(public, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "cmd", "server")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	t.Chdir(nested)
	got, err := filepath.EvalSymlinks(detectStaticRoot())
	if err != nil {
		t.Fatalf("resolve static root: %v", err)
	}
	want, _ := filepath.EvalSymlinks(public)
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
