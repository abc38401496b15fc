package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdictdev/verdict/internal/config"
	"github.com/verdictdev/verdict/internal/gitctx"
	"github.com/verdictdev/verdict/internal/orchestrate"
	"github.com/verdictdev/verdict/internal/providers"
	"github.com/verdictdev/verdict/internal/redact"
)

// Run executes a review for the given diff: gather context, build the
// provider registry, walk the orchestrator, and parse each chunk's
// reply into findings. Chunk findings are concatenated in chunk order;
// overlapping chunks may repeat a finding, which is accepted rather
// than silently deduplicated.
func Run(ctx context.Context, src gitctx.Source, diff gitctx.DiffResult, cfg config.Config, logger *slog.Logger) (*Report, error) {
	startTime := time.Now()

	reviewDiff := diff.Diff
	if cfg.Redact {
		reviewDiff = redact.Secrets(reviewDiff)
	}
	gitMs := time.Since(startTime).Milliseconds()

	if strings.TrimSpace(reviewDiff) == "" {
		return emptyReport(diff, gitMs, startTime), nil
	}

	if cfg.Redact {
		src = &redactingSource{src: src, paths: cfg.RedactPaths}
	}

	bundle := GatherContext(src, reviewDiff, diff.Files, cfg.Language, cfg.ProjectType)
	logger.Info("context gathered",
		"files", len(bundle.ChangedFiles),
		"hunks", len(bundle.Hunks),
		"breaking_changes", len(bundle.Deps.BreakingChanges),
		"patterns", len(bundle.Arch.Patterns))

	registry := providers.BuildRegistry(&cfg, logger)
	orch := orchestrate.New(&cfg, registry, logger)

	llmStart := time.Now()
	results, err := orch.ReviewDiff(ctx, reviewDiff, func(chunk string) providers.Request {
		return providers.Request{
			SystemPrompt: SystemPrompt(),
			UserPrompt:   BuildPrompt(chunk, bundle),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("provider review: %w", err)
	}
	llmMs := time.Since(llmStart).Milliseconds()

	findings := []Finding{}
	for _, r := range results {
		findings = append(findings, ParseFindings(r.Content)...)
	}

	return &Report{
		Tool:    "verdict",
		Version: "1.0",
		RunID:   uuid.NewString(),
		Repo: RepoInfo{
			Root:   diff.Repo.Root,
			Head:   diff.Repo.Head,
			Branch: diff.Repo.Branch,
		},
		Inputs: InputInfo{
			Mode:  diff.Mode,
			Range: diff.Range,
		},
		Summary:      ComputeSummary(findings),
		Findings:     findings,
		Architecture: bundle.Arch,
		Timing: Timing{
			GitMs:   gitMs,
			LLMMs:   llmMs,
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}, nil
}

// redactingSource scrubs secrets from file content before the analyzers
// and prompt builder see it. Files matching the configured path patterns
// are blanked entirely.
type redactingSource struct {
	src   gitctx.Source
	paths []string
}

func (r *redactingSource) FileContent(path string) string {
	return redact.Content(r.src.FileContent(path), path, r.paths)
}

func (r *redactingSource) ProjectFiles() []string { return r.src.ProjectFiles() }

func emptyReport(diff gitctx.DiffResult, gitMs int64, startTime time.Time) *Report {
	return &Report{
		Tool:    "verdict",
		Version: "1.0",
		RunID:   uuid.NewString(),
		Repo: RepoInfo{
			Root:   diff.Repo.Root,
			Head:   diff.Repo.Head,
			Branch: diff.Repo.Branch,
		},
		Inputs: InputInfo{
			Mode:  diff.Mode,
			Range: diff.Range,
		},
		Summary:  Summary{},
		Findings: []Finding{},
		Timing: Timing{
			GitMs:   gitMs,
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}
}
