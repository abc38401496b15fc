package review

import (
	"github.com/verdictdev/verdict/internal/arch"
	"github.com/verdictdev/verdict/internal/deps"
	"github.com/verdictdev/verdict/internal/diffparse"
	"github.com/verdictdev/verdict/internal/filectx"
	"github.com/verdictdev/verdict/internal/gitctx"
)

// maxContextFiles bounds how many changed files get full context
// extraction; beyond that the prompt grows without adding signal.
const maxContextFiles = 5

// ContextBundle holds everything gathered about a diff before prompting.
// Bundles are built fresh for every review invocation and never cached.
type ContextBundle struct {
	Hunks        []diffparse.Hunk
	FileContexts map[string]filectx.FileContext
	Deps         *deps.DependencyMap
	Arch         *arch.Analysis
	ChangedFiles []string
	Language     string
	ProjectType  string
}

// GatherContext parses the diff and runs every analyzer over it. All
// analyzers are best-effort; a file that cannot be read degrades to
// empty context rather than failing the review.
func GatherContext(src gitctx.Source, diff string, changedFiles []string, language, projectType string) *ContextBundle {
	content := func(path string) string { return src.FileContent(path) }
	hunks := diffparse.Parse(diff, content)

	seen := make(map[string]bool)
	var changed []string
	for _, h := range hunks {
		if !seen[h.FilePath] {
			seen[h.FilePath] = true
			changed = append(changed, h.FilePath)
		}
	}
	if len(changed) == 0 {
		changed = changedFiles
	}

	contexts := make(map[string]filectx.FileContext)
	for i, f := range changed {
		if i >= maxContextFiles {
			break
		}
		contexts[f] = filectx.Extract(f, src.FileContent(f))
	}

	depAnalyzer := &deps.Analyzer{Src: src}
	archAnalyzer := &arch.Analyzer{Src: src}
	depMap := depAnalyzer.Analyze(changed, hunks)

	return &ContextBundle{
		Hunks:        hunks,
		FileContexts: contexts,
		Deps:         &depMap,
		Arch:         archAnalyzer.Analyze(changed, nil),
		ChangedFiles: changed,
		Language:     language,
		ProjectType:  projectType,
	}
}
