package deps

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/verdictdev/verdict/internal/diffparse"
	"github.com/verdictdev/verdict/internal/filectx"
	"github.com/verdictdev/verdict/internal/gitctx"
)

// Caps bound every list in a DependencyMap so the prompt stays small.
const (
	maxExports         = 15
	maxAffectedFiles   = 10
	maxRelatedPerFile  = 10
	maxRelatedOverall  = 20
)

// DependencyMap describes cross-file relationships derived for one
// review. Everything here is a textual over-approximation: a hint for
// the prompt, never a certified analysis.
type DependencyMap struct {
	ChangedExports  map[string][]string
	AffectedFiles   map[string][]string
	BreakingChanges []string
	RelatedFiles    []string
}

// Analyzer computes DependencyMaps against a file source.
type Analyzer struct {
	Src gitctx.Source
}

// Breaking-change heuristics applied to removed lines. Multiple patterns
// may match the same line; each match produces its own entry.
var (
	funcDefRe  = regexp.MustCompile(`^(def|function|public.*)\s+\w+\s*\(`)
	classDefRe = regexp.MustCompile(`^class\s+\w+`)
	routeTerms = []string{"@app.route", "@router", "app.get", "app.post"}
	exportDecl = []string{"function", "class", "const", "let"}
)

// Analyze derives a DependencyMap for the changed files and their hunks.
// Every step is independently fault-tolerant: a file that cannot be read
// contributes nothing instead of aborting the batch.
func (a *Analyzer) Analyze(changedFiles []string, hunks []diffparse.Hunk) DependencyMap {
	dm := DependencyMap{
		ChangedExports: make(map[string][]string),
		AffectedFiles:  make(map[string][]string),
	}

	related := make(map[string]bool)

	for _, file := range changedFiles {
		content := a.content(file)
		if exports := extractExports(file, content); len(exports) > 0 {
			dm.ChangedExports[file] = exports
		}
	}

	for _, file := range changedFiles {
		affecting := a.findImporters(file)
		if len(affecting) > 0 {
			dm.AffectedFiles[file] = affecting
			for _, f := range affecting {
				related[f] = true
			}
		}
	}

	for _, h := range hunks {
		dm.BreakingChanges = append(dm.BreakingChanges, detectBreakingChanges(h)...)
	}

	for _, file := range changedFiles {
		for _, imp := range a.resolveImports(file) {
			related[imp] = true
		}
	}

	dm.RelatedFiles = sortedKeys(related)
	if len(dm.RelatedFiles) > maxRelatedOverall {
		dm.RelatedFiles = dm.RelatedFiles[:maxRelatedOverall]
	}
	return dm
}

func (a *Analyzer) content(path string) string {
	if a.Src == nil {
		return ""
	}
	return a.Src.FileContent(path)
}

// extractExports pulls export-like symbols from a file using
// language-specific heuristics, deduplicated and capped.
func extractExports(path, content string) []string {
	if content == "" {
		return nil
	}
	var exports []string

	switch filectx.DetectLanguage(path) {
	case filectx.LangPython:
		// An explicit __all__ list takes precedence over inference.
		if m := regexp.MustCompile(`(?s)__all__\s*=\s*\[(.*?)\]`).FindStringSubmatch(content); m != nil {
			for _, name := range regexp.MustCompile(`["']([^"']+)["']`).FindAllStringSubmatch(m[1], -1) {
				exports = append(exports, name[1])
			}
			break
		}
		for _, m := range regexp.MustCompile(`(?m)^\s*def\s+([a-zA-Z]\w*)\s*\(`).FindAllStringSubmatch(content, -1) {
			if !strings.HasPrefix(m[1], "_") {
				exports = append(exports, m[1])
			}
		}
		for _, m := range regexp.MustCompile(`(?m)^\s*class\s+([a-zA-Z]\w*)`).FindAllStringSubmatch(content, -1) {
			if !strings.HasPrefix(m[1], "_") {
				exports = append(exports, m[1])
			}
		}

	case filectx.LangJavaScript, filectx.LangTypeScript:
		for _, m := range regexp.MustCompile(`export\s+(?:const|let|var|function|class)\s+(\w+)`).FindAllStringSubmatch(content, -1) {
			exports = append(exports, m[1])
		}
		for _, block := range regexp.MustCompile(`export\s*\{\s*([^}]+)\s*\}`).FindAllStringSubmatch(content, -1) {
			for _, name := range regexp.MustCompile(`(\w+)`).FindAllString(block[1], -1) {
				exports = append(exports, name)
			}
		}
		if regexp.MustCompile(`export\s+default`).MatchString(content) {
			exports = append(exports, "default:"+stem(path))
		}

	case filectx.LangJava:
		for _, m := range regexp.MustCompile(`public\s+class\s+(\w+)`).FindAllStringSubmatch(content, -1) {
			exports = append(exports, m[1])
		}
		for _, m := range regexp.MustCompile(`public\s+(?:static\s+)?\w+\s+(\w+)\s*\(`).FindAllStringSubmatch(content, -1) {
			exports = append(exports, m[1])
		}

	case filectx.LangGo:
		for _, m := range regexp.MustCompile(`func\s+([A-Z]\w*)`).FindAllStringSubmatch(content, -1) {
			exports = append(exports, m[1])
		}
		for _, m := range regexp.MustCompile(`type\s+([A-Z]\w*)`).FindAllStringSubmatch(content, -1) {
			exports = append(exports, m[1])
		}
	}

	exports = dedupe(exports)
	if len(exports) > maxExports {
		exports = exports[:maxExports]
	}
	return exports
}

// findImporters text-searches the project for files whose content looks
// like it imports the target, capped at maxAffectedFiles.
func (a *Analyzer) findImporters(target string) []string {
	if a.Src == nil {
		return nil
	}
	fileStem := stem(target)
	fileName := filepath.Base(target)

	patterns := []*regexp.Regexp{
		regexp.MustCompile(`import.*` + regexp.QuoteMeta(fileStem)),
		regexp.MustCompile(`from.*` + regexp.QuoteMeta(fileStem)),
		regexp.MustCompile(`require.*` + regexp.QuoteMeta(fileName)),
	}

	var importing []string
	for _, candidate := range a.Src.ProjectFiles() {
		if candidate == target {
			continue
		}
		content := a.Src.FileContent(candidate)
		if content == "" {
			continue
		}
		for _, pat := range patterns {
			if pat.MatchString(content) {
				importing = append(importing, candidate)
				break
			}
		}
		if len(importing) >= maxAffectedFiles {
			break
		}
	}
	return importing
}

// detectBreakingChanges applies the removal heuristics to every removed
// line of a hunk. Entries are tagged with the hunk's new-range start:
// removed lines have no position in the new file, so the hunk anchor is
// the closest stable line reference.
func detectBreakingChanges(h diffparse.Hunk) []string {
	var changes []string
	tag := fmt.Sprintf("%s:%d", h.FilePath, h.NewStart)

	for _, line := range h.Lines {
		if !strings.HasPrefix(line, "-") {
			continue
		}
		content := strings.TrimSpace(line[1:])

		if funcDefRe.MatchString(content) {
			changes = append(changes, "Function signature change in "+tag)
		}
		if classDefRe.MatchString(content) {
			changes = append(changes, "Class definition change in "+tag)
		}
		if strings.Contains(content, "export") && containsAny(content, exportDecl) {
			changes = append(changes, "Export removal in "+tag)
		}
		if containsAny(strings.ToLower(content), routeTerms) {
			changes = append(changes, "API endpoint change in "+tag)
		}
	}
	return changes
}

// resolveImports follows a changed file's own import statements to
// local files, checking candidates against the project listing instead
// of the disk. Capped at maxRelatedPerFile additions.
func (a *Analyzer) resolveImports(path string) []string {
	if a.Src == nil {
		return nil
	}
	content := a.Src.FileContent(path)
	if content == "" {
		return nil
	}

	known := make(map[string]bool)
	for _, f := range a.Src.ProjectFiles() {
		known[f] = true
	}
	dir := filepath.Dir(path)

	var resolved []string
	add := func(candidates ...string) {
		for _, c := range candidates {
			c = filepath.ToSlash(filepath.Clean(c))
			if known[c] {
				resolved = append(resolved, c)
				return
			}
		}
	}

	switch filectx.DetectLanguage(path) {
	case filectx.LangPython:
		for _, m := range regexp.MustCompile(`(?m)^\s*from\s+\.?(\w+)\s+import`).FindAllStringSubmatch(content, -1) {
			add(filepath.Join(dir, m[1]+".py"), filepath.Join(dir, m[1], "__init__.py"))
		}
		for _, m := range regexp.MustCompile(`(?m)^\s*import\s+(\w+)\s*$`).FindAllStringSubmatch(content, -1) {
			add(filepath.Join(dir, m[1]+".py"))
		}

	case filectx.LangJavaScript, filectx.LangTypeScript:
		relRe := regexp.MustCompile(`(?:import.*from\s+|require\()["'](\.{1,2}/[^"']+)["']`)
		for _, m := range relRe.FindAllStringSubmatch(content, -1) {
			base := filepath.Join(dir, m[1])
			add(base+".js", base+".ts", base+".tsx",
				filepath.Join(base, "index.js"), filepath.Join(base, "index.ts"))
		}
	}

	resolved = dedupe(resolved)
	if len(resolved) > maxRelatedPerFile {
		resolved = resolved[:maxRelatedPerFile]
	}
	return resolved
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
