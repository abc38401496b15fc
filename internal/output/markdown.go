package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verdictdev/verdict/internal/arch"
	"github.com/verdictdev/verdict/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	total := totalFindings(report.Summary)

	fmt.Fprintf(w, "## Verdict Code Review\n\n")

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Critical | %d    |\n", report.Summary.Counts.Critical)
	fmt.Fprintf(w, "| Major    | %d    |\n", report.Summary.Counts.Major)
	fmt.Fprintf(w, "| Minor    | %d    |\n", report.Summary.Counts.Minor)
	fmt.Fprintf(w, "| Info     | %d    |\n", report.Summary.Counts.Info)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	if total == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
	} else {
		m.writeFindings(w, report)
	}

	m.writeArchitecture(w, report.Architecture)

	fmt.Fprintf(w, "*Reviewed in %dms (git: %dms, LLM: %dms)*\n",
		report.Timing.TotalMs, report.Timing.GitMs, report.Timing.LLMMs)

	return nil
}

func (m *MarkdownWriter) writeFindings(w io.Writer, report *review.Report) {
	grouped := groupBySeverity(report.Findings)
	for _, sev := range severityOrder {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		icon := mdSeverityIcon(sev)
		label := strings.ToUpper(string(sev))

		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n", icon, label, len(findings))

		sort.SliceStable(findings, func(i, j int) bool {
			return findings[i].File < findings[j].File
		})

		for _, f := range findings {
			fmt.Fprintf(w, "### %s\n\n", f.Message)
			fmt.Fprintf(w, "**`%s:%d-%d`** | %s", f.File, f.LineStart, f.LineEnd, f.Category)
			if f.Confidence != "" {
				fmt.Fprintf(w, " | Confidence: %s", f.Confidence)
			}
			fmt.Fprintf(w, "\n\n")

			if f.CodeSnippet != "" {
				fmt.Fprintf(w, "**Problem:**\n\n```%s\n%s\n```\n\n", inferLang(f.File), f.CodeSnippet)
			}
			if f.Suggestion != "" {
				fmt.Fprintf(w, "**Suggestion:**\n\n> %s\n\n", strings.ReplaceAll(f.Suggestion, "\n", "\n> "))
			}
			if f.FixedCode != "" {
				fmt.Fprintf(w, "**Suggested fix:**\n\n```%s\n%s\n```\n\n", inferLang(f.File), f.FixedCode)
			}
			if f.Impact != "" {
				fmt.Fprintf(w, "**Impact:** %s\n\n", f.Impact)
			}

			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}
}

func (m *MarkdownWriter) writeArchitecture(w io.Writer, a *arch.Analysis) {
	if a == nil {
		return
	}
	if len(a.Patterns) == 0 && len(a.DesignIssues) == 0 && len(a.Recommendations) == 0 {
		return
	}

	fmt.Fprintf(w, "<details>\n<summary>:triangular_ruler: ARCHITECTURE</summary>\n\n")
	if len(a.Patterns) > 0 {
		fmt.Fprintf(w, "**Detected patterns:**\n\n")
		for _, p := range a.Patterns {
			fmt.Fprintf(w, "- %s (%.0f%% confidence): %s\n", p.Type, p.Confidence*100, p.Description)
		}
		fmt.Fprintf(w, "\n")
	}
	if len(a.DesignIssues) > 0 {
		fmt.Fprintf(w, "**Concerns:**\n\n")
		for _, issue := range a.DesignIssues {
			fmt.Fprintf(w, "- %s\n", issue)
		}
		fmt.Fprintf(w, "\n")
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintf(w, "**Recommendations:**\n\n")
		for i, rec := range a.Recommendations {
			fmt.Fprintf(w, "%d. %s\n", i+1, rec)
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "</details>\n\n")
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return ":red_circle:"
	case review.SeverityMajor:
		return ":orange_circle:"
	case review.SeverityMinor:
		return ":yellow_circle:"
	case review.SeverityInfo:
		return ":information_source:"
	default:
		return ":white_circle:"
	}
}

func inferLang(path string) string {
	langMap := map[string]string{
		".go":   "go",
		".py":   "python",
		".js":   "javascript",
		".ts":   "typescript",
		".tsx":  "tsx",
		".jsx":  "jsx",
		".rs":   "rust",
		".java": "java",
		".rb":   "ruby",
		".cpp":  "cpp",
		".c":    "c",
		".cs":   "csharp",
		".php":  "php",
		".sh":   "bash",
		".sql":  "sql",
		".yaml": "yaml",
		".yml":  "yaml",
		".json": "json",
		".tf":   "hcl",
	}
	for ext, lang := range langMap {
		if strings.HasSuffix(path, ext) {
			return lang
		}
	}
	return ""
}
