package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/verdictdev/verdict/internal/config"
	"github.com/verdictdev/verdict/internal/providers"
)

// ErrProvidersExhausted reports that every configured provider failed,
// or that no provider survived registry construction.
var ErrProvidersExhausted = errors.New("all AI providers failed")

// PromptFunc renders the provider request for one diff chunk.
type PromptFunc func(chunk string) providers.Request

// ChunkResult holds one chunk's raw provider output in chunk order.
type ChunkResult struct {
	Index    int
	Content  string
	Provider string
}

// Orchestrator owns the provider registry, token budgeting, diff
// chunking, and the primary/fallback control flow.
type Orchestrator struct {
	primary   string
	fallbacks []string
	registry  providers.Registry
	budgets   config.Budgets
	logger    *slog.Logger
}

// New creates an Orchestrator from the loaded configuration and a
// provider registry.
func New(cfg *config.Config, reg providers.Registry, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		primary:   cfg.Primary,
		fallbacks: cfg.Fallbacks,
		registry:  reg,
		budgets:   cfg.Budgets,
		logger:    logger,
	}
}

// ReviewDiff runs the full review flow for one diff: filter extremely
// large diffs to the highest-priority files, chunk what remains to the
// per-request budget, and complete each chunk against the provider
// chain. Chunks run sequentially; a failed chunk is logged and skipped.
// The returned error is non-nil only when no chunk succeeded.
func (o *Orchestrator) ReviewDiff(ctx context.Context, diff string, prompt PromptFunc) ([]ChunkResult, error) {
	if len(o.registry) == 0 {
		return nil, fmt.Errorf("%w: no providers configured", ErrProvidersExhausted)
	}

	estimated := EstimateTokens(diff)
	o.logger.Debug("analyzing diff", "estimated_tokens", estimated)

	if estimated > o.budgets.ExtremelyLargeTokens {
		o.logger.Info("extremely large diff, filtering to most critical files",
			"estimated_tokens", estimated, "max_files", o.budgets.MaxFilteredFiles)
		diff = FilterImportantFiles(diff, o.budgets.MaxFilteredFiles)
		estimated = EstimateTokens(diff)
		o.logger.Info("filtered diff", "estimated_tokens", estimated)
	}

	chunks := ChunkDiff(diff, o.budgets.SafeTokens)
	if len(chunks) > 1 {
		o.logger.Info("large diff, chunking for analysis", "chunks", len(chunks))
	}

	var results []ChunkResult
	var lastErr error
	for i, chunk := range chunks {
		resp, name, err := o.completeChunk(ctx, prompt(chunk))
		if err != nil {
			o.logger.Warn("chunk review failed", "chunk", i+1, "chunks", len(chunks), "error", err)
			lastErr = err
			continue
		}
		results = append(results, ChunkResult{Index: i, Content: resp.Content, Provider: name})
	}

	if len(results) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrProvidersExhausted
	}
	return results, nil
}

// Provider attempt states. The chain is a small explicit state machine
// so the ordering guarantees are easy to test.
type attemptState int

const (
	tryingPrimary attemptState = iota
	tryingFallback
	exhausted
)

func (o *Orchestrator) completeChunk(ctx context.Context, req providers.Request) (providers.Response, string, error) {
	state := tryingPrimary
	fallback := 0
	var lastErr error

	for {
		var id string
		switch state {
		case tryingPrimary:
			id = o.primary
			state = tryingFallback
		case tryingFallback:
			if fallback >= len(o.fallbacks) {
				state = exhausted
				continue
			}
			id = o.fallbacks[fallback]
			fallback++
		case exhausted:
			if lastErr != nil {
				return providers.Response{}, "", fmt.Errorf("%w: last error: %w", ErrProvidersExhausted, lastErr)
			}
			return providers.Response{}, "", ErrProvidersExhausted
		}

		p, ok := o.registry[id]
		if !ok {
			continue
		}

		o.logger.Debug("trying provider", "provider", id)
		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, id, nil
		}
		o.logger.Warn("provider failed", "provider", id, "error", err)
		lastErr = err
	}
}
