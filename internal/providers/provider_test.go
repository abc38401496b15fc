package providers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/verdictdev/verdict/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(config.ProviderConfig{ID: "nope"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewKnownProviders(t *testing.T) {
	for _, id := range []string{"anthropic", "openai", "openrouter", "ollama"} {
		p, err := New(config.ProviderConfig{ID: id, APIKey: "k", Model: "m"})
		if err != nil {
			t.Fatalf("New(%s): %v", id, err)
		}
		if p.Name() != id {
			t.Errorf("Name() = %q, want %q", p.Name(), id)
		}
	}
}

func TestBuildRegistryDropsMissingCredentials(t *testing.T) {
	cfg := config.Default()
	// No API keys resolved: only ollama validates (endpoint is always set).
	reg := BuildRegistry(&cfg, discardLogger())

	if _, ok := reg["anthropic"]; ok {
		t.Error("anthropic should be dropped without an API key")
	}
	if _, ok := reg["openai"]; ok {
		t.Error("openai should be dropped without an API key")
	}
	if _, ok := reg["ollama"]; !ok {
		t.Error("ollama should survive without credentials")
	}
}

func TestBuildRegistryWithCredentials(t *testing.T) {
	cfg := config.Default()
	for i := range cfg.Providers {
		cfg.Providers[i].APIKey = "test-key"
	}
	reg := BuildRegistry(&cfg, discardLogger())

	for _, id := range []string{"anthropic", "openai", "openrouter", "ollama"} {
		if _, ok := reg[id]; !ok {
			t.Errorf("%s missing from registry", id)
		}
	}
}

func TestBuildRegistrySkipsUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Fallbacks = append(cfg.Fallbacks, "mystery")
	reg := BuildRegistry(&cfg, discardLogger())
	if _, ok := reg["mystery"]; ok {
		t.Error("unconfigured provider should not be in the registry")
	}
}
