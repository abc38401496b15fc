package review

import (
	"strings"
	"testing"

	"github.com/verdictdev/verdict/internal/arch"
	"github.com/verdictdev/verdict/internal/deps"
	"github.com/verdictdev/verdict/internal/diffparse"
	"github.com/verdictdev/verdict/internal/filectx"
)

func TestSystemPromptShape(t *testing.T) {
	sp := SystemPrompt()
	for _, want := range []string{
		"JSON array",
		`"severity": "critical|major|minor|info"`,
		`"confidence": "high|medium|low"`,
		"empty array: []",
	} {
		if !strings.Contains(sp, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildPromptDiffMarkers(t *testing.T) {
	bundle := &ContextBundle{}
	prompt := BuildPrompt("diff --git a/x b/x\n+added line", bundle)

	begin := strings.Index(prompt, "--- BEGIN DIFF ---")
	end := strings.Index(prompt, "--- END DIFF ---")
	if begin == -1 || end == -1 || end < begin {
		t.Fatal("diff markers missing or out of order")
	}
	body := prompt[begin:end]
	if !strings.Contains(body, "+added line") {
		t.Error("diff chunk not embedded between markers")
	}
}

func TestBuildPromptContextSection(t *testing.T) {
	bundle := &ContextBundle{
		ChangedFiles: []string{"app.py", "db.py"},
		Hunks:        []diffparse.Hunk{{FilePath: "app.py"}},
		Language:     "python",
		ProjectType:  "web",
		FileContexts: map[string]filectx.FileContext{
			"app.py": {
				FilePath:   "app.py",
				Language:   "python",
				Imports:    []string{"import os"},
				Functions:  []string{"main"},
				TotalLines: 40,
			},
		},
	}
	prompt := BuildPrompt("", bundle)

	for _, want := range []string{
		"- Language: python",
		"- Project Type: web",
		"- Files Changed: 2",
		"- Code Hunks: 1",
		"app.py (python, 40 lines)",
		"functions [main]",
		"classes [none]",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDefaultsUnknownLanguage(t *testing.T) {
	prompt := BuildPrompt("", &ContextBundle{})
	if !strings.Contains(prompt, "- Language: unknown") {
		t.Error("missing language default")
	}
	if !strings.Contains(prompt, "- Project Type: general") {
		t.Error("missing project type default")
	}
}

func TestBuildPromptDependencySection(t *testing.T) {
	bundle := &ContextBundle{
		Deps: &deps.DependencyMap{
			BreakingChanges: []string{"Export removal in api.py:3"},
			AffectedFiles:   map[string][]string{"api.py": {"a.py", "b.py"}},
			ChangedExports:  map[string][]string{"api.py": {"handler"}},
		},
	}
	prompt := BuildPrompt("", bundle)

	for _, want := range []string{
		"POTENTIAL BREAKING CHANGES (1):",
		"- Export removal in api.py:3",
		"- api.py affects 2 files",
		"- api.py: handler",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDependencySectionOmittedWhenEmpty(t *testing.T) {
	bundle := &ContextBundle{Deps: &deps.DependencyMap{}}
	prompt := BuildPrompt("", bundle)
	if strings.Contains(prompt, "Dependency analysis:") {
		t.Error("empty dependency section should be omitted")
	}
}

func TestBuildPromptHunkContext(t *testing.T) {
	bundle := &ContextBundle{
		Hunks: []diffparse.Hunk{{
			FilePath:      "app.py",
			NewStart:      10,
			NewCount:      4,
			ContextBefore: []string{"b1", "b2", "b3", "b4"},
			ContextAfter:  []string{"a1", "a2", "a3", "a4"},
		}},
	}
	prompt := BuildPrompt("", bundle)

	if !strings.Contains(prompt, "app.py (lines 10-14):") {
		t.Error("missing hunk header")
	}
	// Only the last three before lines and first three after lines are shown.
	if strings.Contains(prompt, "b1") || !strings.Contains(prompt, "b2") {
		t.Error("before-context trimming wrong")
	}
	if strings.Contains(prompt, "a4") || !strings.Contains(prompt, "a3") {
		t.Error("after-context trimming wrong")
	}
}

func TestBuildPromptArchitectureSection(t *testing.T) {
	bundle := &ContextBundle{
		Arch: &arch.Analysis{
			Patterns: []arch.Pattern{
				{Type: "MVC (Model-View-Controller)", Confidence: 1.0, Description: "Separation of data, presentation, and control logic"},
			},
			Structure:       map[string][]string{"Backend": {"app.py"}},
			TechStack:       map[string][]string{"Languages": {"Python"}},
			DesignIssues:    []string{"Mixed concerns detected"},
			Recommendations: []string{"Add documentation"},
		},
	}
	prompt := BuildPrompt("", bundle)

	for _, want := range []string{
		"- MVC (Model-View-Controller) (100% confidence)",
		"- Backend: 1 files",
		"- Languages: Python",
		"Architectural concerns (1):",
		"1. Add documentation",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
