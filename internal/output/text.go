package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verdictdev/verdict/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	total := totalFindings(report.Summary)
	ew.printf("Verdict Code Review — %s mode\n", report.Inputs.Mode)
	if report.Inputs.Range != "" {
		ew.printf("Range: %s\n", report.Inputs.Range)
	}
	ew.printf("Repository: %s (branch: %s)\n", report.Repo.Root, report.Repo.Branch)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", total)
	if total > 0 {
		ew.printf(" (%d critical, %d major, %d minor, %d info)",
			report.Summary.Counts.Critical,
			report.Summary.Counts.Major,
			report.Summary.Counts.Minor,
			report.Summary.Counts.Info,
		)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		t.writeFooter(ew, report)
		return ew.err
	}

	grouped := groupBySeverity(report.Findings)
	for _, sev := range severityOrder {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		label := strings.ToUpper(string(sev))
		ew.printf("\n%s %s\n", severityIcon(sev), label)
		ew.println(strings.Repeat("─", 40))

		sort.SliceStable(findings, func(i, j int) bool {
			return findings[i].File < findings[j].File
		})

		for _, f := range findings {
			ew.printf("\n  %s:%d-%d  [%s]\n", f.File, f.LineStart, f.LineEnd, f.Category)
			if f.Confidence != "" {
				ew.printf("  Confidence: %s\n", f.Confidence)
			}
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if f.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(f.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
			if f.Impact != "" {
				ew.println("  Impact:")
				for _, line := range wrapText(f.Impact, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	t.writeArchitecture(ew, report)
	t.writeFooter(ew, report)
	return ew.err
}

func (t *TextWriter) writeArchitecture(ew *errWriter, report *review.Report) {
	a := report.Architecture
	if a == nil || (len(a.Patterns) == 0 && len(a.DesignIssues) == 0) {
		return
	}
	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.println("Architecture")
	for _, p := range a.Patterns {
		ew.printf("  %s (%.0f%% confidence)\n", p.Type, p.Confidence*100)
	}
	for _, issue := range a.DesignIssues {
		ew.printf("  Concern: %s\n", issue)
	}
}

func (t *TextWriter) writeFooter(ew *errWriter, report *review.Report) {
	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (git: %dms, LLM: %dms)\n",
		report.Timing.TotalMs, report.Timing.GitMs, report.Timing.LLMMs)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!]"
	case review.SeverityMajor:
		return "[!]"
	case review.SeverityMinor:
		return "[-]"
	case review.SeverityInfo:
		return "[i]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
