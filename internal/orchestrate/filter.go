package orchestrate

import (
	"sort"
	"strings"
)

// High-priority paths are security-critical files, configuration, core
// business logic, data access, and entry points. Low-priority paths are
// tests, docs, lockfiles, and assets.
var highPriorityTerms = []string{
	"auth", "login", "password", "token", "session", "security",
	".env", "config", "settings", ".yml", ".yaml", ".json",
	"service", "controller", "model", "handler", "api",
	"db", "database", "migration", "schema", "repository",
	"main", "index", "app", "server", "router",
}

var lowPriorityTerms = []string{
	"test", "spec", "__test__",
	"readme", ".md", "doc",
	"package-lock", "yarn.lock", "build", "dist",
	"assets", "static", "public", "images",
}

type fileSection struct {
	path     string
	lines    []string
	priority int
	size     int
}

func scorePriority(path string) int {
	lower := strings.ToLower(path)
	priority := 1
	for _, term := range highPriorityTerms {
		if strings.Contains(lower, term) {
			priority += 3
			break
		}
	}
	for _, term := range lowPriorityTerms {
		if strings.Contains(lower, term) {
			priority -= 2
			break
		}
	}
	return priority
}

// FilterImportantFiles trims an oversized diff down to the maxFiles
// highest-priority file sections. Files are scored by path keywords and
// ties are broken by larger section size.
func FilterImportantFiles(diff string, maxFiles int) string {
	var sections []*fileSection
	var current *fileSection

	flush := func() {
		if current == nil {
			return
		}
		current.size = len(strings.Join(current.lines, "\n"))
		sections = append(sections, current)
		current = nil
	}

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") {
			flush()
			path := line
			if _, after, ok := strings.Cut(line, " b/"); ok {
				path = after
			}
			current = &fileSection{
				path:     path,
				lines:    []string{line},
				priority: scorePriority(path),
			}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}
	flush()

	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].priority != sections[j].priority {
			return sections[i].priority > sections[j].priority
		}
		return sections[i].size > sections[j].size
	})
	if len(sections) > maxFiles {
		sections = sections[:maxFiles]
	}

	var out []string
	for _, s := range sections {
		out = append(out, s.lines...)
	}
	return strings.Join(out, "\n")
}
