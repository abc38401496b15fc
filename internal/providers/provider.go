package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verdictdev/verdict/internal/config"
)

// Request contains the prompts sent to an AI provider.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response contains the raw completion from an AI provider.
type Response struct {
	Content    string
	TokensUsed int
}

// Provider is the AI provider abstraction interface.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Validate() bool
	Name() string
}

// New creates a provider from its configuration.
func New(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.ID {
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	case "openrouter":
		return NewOpenRouter(cfg), nil
	case "ollama", "local":
		return NewOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.ID)
	}
}

// Registry holds the providers that passed validation, keyed by name.
type Registry map[string]Provider

// BuildRegistry instantiates the primary and fallback providers from the
// configuration. Providers with missing credentials or endpoints are
// logged and dropped rather than failing the whole run.
func BuildRegistry(cfg *config.Config, logger *slog.Logger) Registry {
	reg := make(Registry)
	for _, id := range append([]string{cfg.Primary}, cfg.Fallbacks...) {
		if _, ok := reg[id]; ok {
			continue
		}
		pc, ok := cfg.Provider(id)
		if !ok {
			logger.Warn("provider not configured", "provider", id)
			continue
		}
		p, err := New(pc)
		if err != nil {
			logger.Warn("provider unavailable", "provider", id, "error", err)
			continue
		}
		if !p.Validate() {
			logger.Warn("provider missing credentials", "provider", id)
			continue
		}
		reg[id] = p
	}
	return reg
}
