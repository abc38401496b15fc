package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verdictdev/verdict/internal/diffparse"
)

const systemPrompt = `You are an expert code reviewer with deep understanding of software architecture and cross-file dependencies. You review code diffs with full contextual awareness and produce structured findings in JSON format.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. Weight severity by context: public exports over private helpers, core modules over utilities, breaking-change potential over local style.
3. Every finding must include a concrete, actionable suggestion that fits the codebase patterns.
4. Consider cross-file impact: how many files depend on the change, whether it breaks existing contracts, and architectural ripple effects.
5. Rate severity as "critical", "major", "minor", or "info".
6. Rate your confidence as "high", "medium", or "low".

You MUST respond with ONLY a JSON array of findings. No markdown, no explanation, no preamble. Just the JSON array.

Each finding must have this exact structure:
{
  "severity": "critical|major|minor|info",
  "category": "security|performance|logic|style|best-practice|breaking-change|architecture|design-pattern",
  "file": "filename from the diff",
  "line_start": 1,
  "line_end": 1,
  "message": "what is wrong and why it matters, considering context and dependencies",
  "suggestion": "actionable fix that fits the codebase patterns",
  "code_snippet": "the problematic code",
  "fixed_code": "the corrected code respecting existing conventions",
  "impact": "potential impact including cross-file effects",
  "confidence": "high|medium|low"
}

If there are no issues, respond with an empty array: []`

// SystemPrompt returns the system prompt for the AI reviewer.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt composes the user prompt for one diff chunk from the
// gathered context bundle. The focus areas mirror the finding
// categories the reviewer is asked to emit.
func BuildPrompt(chunk string, bundle *ContextBundle) string {
	var b strings.Builder

	b.WriteString("Review the following code diff with the context below.\n\n")
	writeContextSection(&b, bundle)
	writeDependencySection(&b, bundle)
	writeHunkContextSection(&b, bundle)
	writeArchitectureSection(&b, bundle)

	b.WriteString("\nFocus areas:\n")
	b.WriteString("- Security: injection, XSS, hardcoded secrets, authentication bypasses, input validation, data exposure\n")
	b.WriteString("- Performance: algorithm efficiency, memory usage, N+1 queries, missing indexes\n")
	b.WriteString("- Logic: business logic errors, edge cases, race conditions, error handling gaps, resource cleanup\n")
	b.WriteString("- Breaking changes: impact on dependent files and API consumers listed above\n")
	b.WriteString("- Architecture: compliance with the detected patterns and concerns listed above\n")
	b.WriteString("- Maintainability: separation of concerns, duplication, consistency with existing patterns\n")

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(chunk)
	b.WriteString("\n--- END DIFF ---\n")

	return b.String()
}

func writeContextSection(b *strings.Builder, bundle *ContextBundle) {
	language := bundle.Language
	if language == "" {
		language = "unknown"
	}
	projectType := bundle.ProjectType
	if projectType == "" {
		projectType = "general"
	}

	b.WriteString("Context:\n")
	fmt.Fprintf(b, "- Language: %s\n", language)
	fmt.Fprintf(b, "- Project Type: %s\n", projectType)
	fmt.Fprintf(b, "- Files Changed: %d\n", len(bundle.ChangedFiles))
	fmt.Fprintf(b, "- Code Hunks: %d\n", len(bundle.Hunks))

	if len(bundle.FileContexts) == 0 {
		return
	}
	b.WriteString("\nFile context:\n")
	paths := make([]string, 0, len(bundle.FileContexts))
	for p := range bundle.FileContexts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	if len(paths) > 3 {
		paths = paths[:3]
	}
	for _, p := range paths {
		fc := bundle.FileContexts[p]
		fmt.Fprintf(b, "- %s (%s, %d lines): imports [%s], functions [%s], classes [%s]\n",
			p, fc.Language, fc.TotalLines,
			joinOrNone(fc.Imports, 5), joinOrNone(fc.Functions, 5), joinOrNone(fc.Classes, 3))
	}
}

func writeDependencySection(b *strings.Builder, bundle *ContextBundle) {
	d := bundle.Deps
	if d == nil {
		return
	}
	if len(d.BreakingChanges) == 0 && len(d.AffectedFiles) == 0 && len(d.ChangedExports) == 0 {
		return
	}

	b.WriteString("\nDependency analysis:\n")
	if len(d.BreakingChanges) > 0 {
		fmt.Fprintf(b, "POTENTIAL BREAKING CHANGES (%d):\n", len(d.BreakingChanges))
		for _, change := range capStrings(d.BreakingChanges, 3) {
			fmt.Fprintf(b, "- %s\n", change)
		}
	}
	if len(d.AffectedFiles) > 0 {
		b.WriteString("Files with dependents:\n")
		for _, file := range capStrings(sortedKeys(d.AffectedFiles), 2) {
			fmt.Fprintf(b, "- %s affects %d files\n", file, len(d.AffectedFiles[file]))
		}
	}
	if len(d.ChangedExports) > 0 {
		b.WriteString("Modified exports:\n")
		for _, file := range capStrings(sortedKeys(d.ChangedExports), 2) {
			fmt.Fprintf(b, "- %s: %s\n", file, joinOrNone(d.ChangedExports[file], 3))
		}
	}
}

func writeHunkContextSection(b *strings.Builder, bundle *ContextBundle) {
	wrote := false
	for _, h := range capHunks(bundle.Hunks, 2) {
		if len(h.ContextBefore) == 0 && len(h.ContextAfter) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("\nSurrounding code context:\n")
			wrote = true
		}
		fmt.Fprintf(b, "%s (lines %d-%d):\n", h.FilePath, h.NewStart, h.NewStart+h.NewCount)
		if len(h.ContextBefore) > 0 {
			before := h.ContextBefore
			if len(before) > 3 {
				before = before[len(before)-3:]
			}
			fmt.Fprintf(b, "Before change:\n```\n%s\n```\n", strings.Join(before, "\n"))
		}
		if len(h.ContextAfter) > 0 {
			after := h.ContextAfter
			if len(after) > 3 {
				after = after[:3]
			}
			fmt.Fprintf(b, "After change:\n```\n%s\n```\n", strings.Join(after, "\n"))
		}
	}
}

func writeArchitectureSection(b *strings.Builder, bundle *ContextBundle) {
	a := bundle.Arch
	if a == nil {
		return
	}

	b.WriteString("\nArchitecture analysis:\n")
	if len(a.Patterns) > 0 {
		b.WriteString("Detected patterns:\n")
		for i, p := range a.Patterns {
			if i >= 3 {
				break
			}
			fmt.Fprintf(b, "- %s (%.0f%% confidence): %s\n", p.Type, p.Confidence*100, p.Description)
		}
	}
	if len(a.Structure) > 0 {
		b.WriteString("Project structure:\n")
		for _, layer := range capStrings(sortedKeys(a.Structure), 4) {
			fmt.Fprintf(b, "- %s: %d files\n", layer, len(a.Structure[layer]))
		}
	}
	if len(a.TechStack) > 0 {
		b.WriteString("Technology stack:\n")
		for _, category := range capStrings(sortedKeys(a.TechStack), 3) {
			fmt.Fprintf(b, "- %s: %s\n", category, joinOrNone(a.TechStack[category], 3))
		}
	}
	if len(a.DesignIssues) > 0 {
		fmt.Fprintf(b, "Architectural concerns (%d):\n", len(a.DesignIssues))
		for _, issue := range capStrings(a.DesignIssues, 3) {
			fmt.Fprintf(b, "- %s\n", issue)
		}
	}
	if len(a.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for i, rec := range capStrings(a.Recommendations, 4) {
			fmt.Fprintf(b, "%d. %s\n", i+1, rec)
		}
	}
}

func joinOrNone(items []string, max int) string {
	if len(items) == 0 {
		return "none"
	}
	if len(items) > max {
		items = items[:max]
	}
	return strings.Join(items, ", ")
}

func capHunks(hunks []diffparse.Hunk, max int) []diffparse.Hunk {
	if len(hunks) > max {
		return hunks[:max]
	}
	return hunks
}

func capStrings(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
