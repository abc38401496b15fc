package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdictdev/verdict/internal/config"
	"github.com/verdictdev/verdict/internal/gitctx"
	"github.com/verdictdev/verdict/internal/output"
	"github.com/verdictdev/verdict/internal/providers"
	"github.com/verdictdev/verdict/internal/review"
)

// Shared review flags
var (
	flagProvider    string
	flagFallbacks   string
	flagFormat      string
	flagOut         string
	flagFailOn      string
	flagLanguage    string
	flagProjectType string
	flagNoRedact    bool
	flagVerbose     bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Primary AI provider (anthropic, openai, openrouter, ollama)")
	cmd.Flags().StringVar(&flagFallbacks, "fallbacks", "", "Fallback provider order (comma-separated)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, info, minor, major, critical)")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Primary language hint for the prompt")
	cmd.Flags().StringVar(&flagProjectType, "project-type", "", "Project type hint for the prompt")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// applyOverrides layers command-line flags over the loaded config.
func applyOverrides(cfg *config.Config) {
	if flagProvider != "" {
		cfg.Primary = flagProvider
	}
	if flagFallbacks != "" {
		cfg.Fallbacks = splitComma(flagFallbacks)
	}
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagFailOn != "" {
		cfg.FailOn = flagFailOn
	}
	if flagLanguage != "" {
		cfg.Language = flagLanguage
	}
	if flagProjectType != "" {
		cfg.ProjectType = flagProjectType
	}
	if flagNoRedact {
		cfg.Redact = false
	}
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runReview(repo *gitctx.Repo, diff gitctx.DiffResult, cfg config.Config) {
	if flagNoRedact {
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	report, err := review.Run(context.Background(), repo, diff, cfg, newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if providers.IsAuthError(err) {
			exitCode = ExitAuthError
		} else {
			exitCode = ExitRuntimeError
		}
		return
	}

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	for _, f := range report.Findings {
		if review.MeetsThreshold(f.Severity, cfg.FailOn) {
			exitCode = ExitFindings
			return
		}
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code changes",
	Long:  "Review code changes using AI providers. Use subcommands to specify what to review.",
}

var reviewUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Review unstaged changes (working tree vs index)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyOverrides(&cfg)
		repo := &gitctx.Repo{}
		diff, err := repo.Unstaged()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(repo, diff, cfg)
		return nil
	},
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyOverrides(&cfg)
		repo := &gitctx.Repo{}
		diff, err := repo.Staged()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(repo, diff, cfg)
		return nil
	},
}

var reviewRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Review a revision range (e.g., main...HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyOverrides(&cfg)
		repo := &gitctx.Repo{}
		diff, err := repo.Range(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(repo, diff, cfg)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewUnstagedCmd)
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewRangeCmd)

	for _, cmd := range []*cobra.Command{
		reviewUnstagedCmd,
		reviewStagedCmd,
		reviewRangeCmd,
	} {
		addReviewFlags(cmd)
	}
}
