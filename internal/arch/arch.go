package arch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verdictdev/verdict/internal/filectx"
	"github.com/verdictdev/verdict/internal/gitctx"
)

const (
	largeFileLines     = 500
	maxRecommendations = 8
	sampledCodeFiles   = 20
)

// Pattern is an architecture pattern detected from the project file listing.
type Pattern struct {
	Type        string   `json:"type"`
	Confidence  float64  `json:"confidence"`
	Evidence    []string `json:"evidence"`
	Description string   `json:"description"`
}

// Analysis is the result of a project-wide architecture pass.
type Analysis struct {
	Patterns        []Pattern           `json:"patterns"`
	Structure       map[string][]string `json:"structure"`
	DesignIssues    []string            `json:"design_issues"`
	Recommendations []string            `json:"recommendations"`
	Complexity      map[string]float64  `json:"complexity"`
	TechStack       map[string][]string `json:"tech_stack"`
}

// Analyzer inspects the project file listing and the changed files.
type Analyzer struct {
	Src gitctx.Source
}

// Analyze runs every architecture check against the project listing.
// The changed-file set drives the design-issue and recommendation passes.
func (a *Analyzer) Analyze(changed []string, all []string) *Analysis {
	if len(all) == 0 && a.Src != nil {
		all = a.Src.ProjectFiles()
	}

	patterns := detectPatterns(all)
	structure := analyzeStructure(all)
	issues := a.designIssues(changed)

	return &Analysis{
		Patterns:        patterns,
		Structure:       structure,
		DesignIssues:    issues,
		Recommendations: recommendations(patterns, structure, issues, changed),
		Complexity:      a.complexityMetrics(all),
		TechStack:       techStack(all),
	}
}

type evidenceCheck struct {
	present bool
	note    string
}

func collectEvidence(checks []evidenceCheck) []string {
	var out []string
	for _, c := range checks {
		if c.present {
			out = append(out, c.note)
		}
	}
	return out
}

func anyPath(paths []string, terms ...string) bool {
	for _, p := range paths {
		for _, t := range terms {
			if strings.Contains(p, t) {
				return true
			}
		}
	}
	return false
}

func countPaths(paths []string, term string) int {
	n := 0
	for _, p := range paths {
		if strings.Contains(p, term) {
			n++
		}
	}
	return n
}

func detectPatterns(all []string) []Pattern {
	var patterns []Pattern
	lower := make([]string, len(all))
	for i, f := range all {
		lower[i] = strings.ToLower(f)
	}

	addPattern := func(typ, desc string, defined int, checks []evidenceCheck) {
		evidence := collectEvidence(checks)
		if len(evidence) < 2 {
			return
		}
		confidence := float64(len(evidence)) / float64(defined)
		if confidence > 1.0 {
			confidence = 1.0
		}
		patterns = append(patterns, Pattern{
			Type:        typ,
			Confidence:  confidence,
			Evidence:    evidence,
			Description: desc,
		})
	}

	addPattern("MVC (Model-View-Controller)",
		"Traditional web application architecture with separated concerns", 3,
		[]evidenceCheck{
			{anyPath(lower, "model"), "Models directory/files detected"},
			{anyPath(lower, "view", "template"), "Views/templates detected"},
			{anyPath(lower, "controller"), "Controllers detected"},
		})

	addPattern("Microservices",
		"Distributed architecture with independent deployable services", 4,
		[]evidenceCheck{
			{countPaths(lower, "service") > 2, "Multiple service files detected"},
			{anyPath(lower, "route", "api"), "API routes detected"},
			{anyPath(lower, "docker"), "Docker configuration found"},
			{countPaths(lower, "main")+countPaths(lower, "app") > 1, "Multiple entry points detected"},
		})

	addPattern("Layered Architecture",
		"Horizontally structured architecture with distinct layers", 3,
		[]evidenceCheck{
			{anyPath(lower, "repository", "dao", "data", "persistence"), "Data access layer detected"},
			{anyPath(lower, "business", "domain", "logic"), "Business logic layer detected"},
			{anyPath(lower, "presentation", "ui", "web"), "Presentation layer detected"},
		})

	addPattern("Clean Architecture",
		"Dependency-inverted architecture focusing on business rules", 3,
		[]evidenceCheck{
			{anyPath(lower, "entit"), "Entities layer detected"},
			{anyPath(lower, "usecase", "use_case"), "Use cases layer detected"},
			{anyPath(lower, "adapter"), "Adapters layer detected"},
		})

	addPattern("Component-Based Frontend",
		"Modular frontend architecture with reusable components", 4,
		[]evidenceCheck{
			{countPaths(lower, "component") > 2, "Component files detected"},
			{anyPath(all, ".jsx", ".tsx"), "React components detected"},
			{anyPath(all, ".vue"), "Vue components detected"},
			{anyPath(lower, "angular", ".component.ts"), "Angular components detected"},
		})

	return patterns
}

var structureBuckets = []struct {
	name  string
	terms []string
	lower bool
}{
	{"Frontend", []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".html", ".css", ".scss"}, false},
	{"Backend", []string{".py", ".java", ".go", ".cs", ".php", ".rb"}, false},
	{"Database", []string{"migration", "seed", ".sql", "database", "schema"}, true},
	{"Configuration", []string{".json", ".yaml", ".yml", ".toml", ".ini", ".env"}, false},
	{"Tests", []string{"test", "spec", "__test__", ".test.", ".spec."}, true},
	{"Documentation", []string{"readme"}, true},
	{"Build/Deploy", []string{"dockerfile", "makefile", "package.json", "requirements", "build", "deploy"}, true},
	{"Assets", []string{".png", ".jpg", ".svg", ".ico", ".gif"}, false},
}

// analyzeStructure categorizes each file into the first bucket it matches.
// Buckets with no files are omitted.
func analyzeStructure(all []string) map[string][]string {
	structure := make(map[string][]string)
	for _, f := range all {
		fl := strings.ToLower(f)
		for _, b := range structureBuckets {
			probe := f
			if b.lower {
				probe = fl
			}
			matched := false
			for _, term := range b.terms {
				if strings.Contains(probe, term) {
					matched = true
					break
				}
			}
			if matched {
				structure[b.name] = append(structure[b.name], f)
				break
			}
		}
	}
	return structure
}

var (
	dbTerms       = []string{"select", "insert", "update", "delete", "query"}
	uiTerms       = []string{"render", "component", "html", "css"}
	businessTerms = []string{"calculate", "validate", "process"}
)

func (a *Analyzer) designIssues(changed []string) []string {
	var issues []string
	if a.Src == nil {
		return issues
	}

	var largeFiles []string
	for _, f := range changed {
		content := a.Src.FileContent(f)
		if content == "" {
			continue
		}
		lines := len(strings.Split(content, "\n"))
		if lines > largeFileLines {
			largeFiles = append(largeFiles, fmt.Sprintf("%s (%d lines)", f, lines))
		}
	}
	if len(largeFiles) > 0 {
		issues = append(issues, "Large files detected that may need refactoring: "+strings.Join(head(largeFiles, 3), ", "))
	}

	limit := changed
	if len(limit) > 10 {
		limit = limit[:10]
	}
	for _, f := range limit {
		content := a.Src.FileContent(f)
		if content == "" {
			continue
		}
		fc := filectx.Extract(f, content)
		stem := strings.TrimSuffix(strings.TrimSuffix(f, ".py"), ".js")
		for _, imp := range fc.Imports {
			if strings.Contains(imp, stem) {
				issues = append(issues, "Potential self-import in "+f)
				break
			}
		}
	}

	var mixed []string
	for _, f := range changed {
		content := strings.ToLower(a.Src.FileContent(f))
		if content == "" {
			continue
		}
		concerns := 0
		for _, terms := range [][]string{dbTerms, uiTerms, businessTerms} {
			for _, t := range terms {
				if strings.Contains(content, t) {
					concerns++
					break
				}
			}
		}
		if concerns >= 2 {
			mixed = append(mixed, f)
		}
	}
	if len(mixed) > 0 {
		issues = append(issues, "Mixed concerns detected in: "+strings.Join(head(mixed, 3), ", "))
	}

	if len(changed) > 1 {
		seen := make(map[string]int)
		sample := changed
		if len(sample) > 5 {
			sample = sample[:5]
		}
		for _, f := range sample {
			content := a.Src.FileContent(f)
			if content == "" {
				continue
			}
			for _, fn := range filectx.Extract(f, content).Functions {
				seen[fn]++
			}
		}
		var dupes []string
		for name, n := range seen {
			if n > 1 {
				dupes = append(dupes, name)
			}
		}
		if len(dupes) > 0 {
			sort.Strings(dupes)
			issues = append(issues, "Potential duplicate function names across files: "+strings.Join(head(dupes, 3), ", "))
		}
	}

	return issues
}

func recommendations(patterns []Pattern, structure map[string][]string, issues []string, changed []string) []string {
	var recs []string

	if len(patterns) == 0 {
		recs = append(recs, "Consider adopting a clear architectural pattern (MVC, Clean Architecture, or Layered) for better code organization")
	} else if len(patterns) > 2 {
		recs = append(recs, "Multiple architectural patterns detected - consider consolidating to a single consistent approach")
	}

	if float64(len(structure["Tests"])) < float64(len(changed))*0.5 {
		recs = append(recs, "Consider increasing test coverage - detected low test file ratio")
	}
	if len(structure["Documentation"]) == 0 {
		recs = append(recs, "Add architectural documentation (README, design docs) to help new developers understand the system")
	}

	frontend, backend := structure["Frontend"], structure["Backend"]
	if len(frontend) > 0 && len(backend) > 0 && len(frontend) > len(backend)*2 {
		recs = append(recs, "Frontend-heavy architecture detected - consider implementing API-first design for better scalability")
	}

	if containsSubstring(issues, "Large files") {
		recs = append(recs, "Break down large files into smaller, more focused modules following Single Responsibility Principle")
	}
	if containsSubstring(issues, "Mixed concerns") {
		recs = append(recs, "Implement proper separation of concerns - separate business logic, data access, and presentation layers")
	}
	if containsSubstring(issues, "duplicate") {
		recs = append(recs, "Extract common functionality into shared utilities or base classes to reduce duplication")
	}

	if matchesAnyTerm(changed, "api", "route", "endpoint") {
		recs = append(recs, "API changes detected - ensure backward compatibility and consider API versioning strategy")
	}
	if matchesAnyTerm(changed, "model", "migration", "database") {
		recs = append(recs, "Database-related changes detected - ensure proper migration strategy and data integrity")
	}

	if len(changed) > 10 {
		recs = append(recs, "Large changeset detected - consider breaking into smaller, focused pull requests for easier review")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func (a *Analyzer) complexityMetrics(all []string) map[string]float64 {
	metrics := map[string]float64{
		"total_files":          float64(len(all)),
		"avg_file_size":        0,
		"dependency_depth":     0,
		"code_to_config_ratio": 0,
	}

	var codeFiles, configFiles []string
	for _, f := range all {
		switch {
		case containsAnyExt(f, ".py", ".js", ".java", ".go", ".ts"):
			codeFiles = append(codeFiles, f)
		case containsAnyExt(f, ".json", ".yaml", ".yml", ".xml"):
			configFiles = append(configFiles, f)
		}
	}

	if a.Src != nil && len(codeFiles) > 0 {
		sample := codeFiles
		if len(sample) > sampledCodeFiles {
			sample = sample[:sampledCodeFiles]
		}
		total, valid := 0, 0
		for _, f := range sample {
			content := a.Src.FileContent(f)
			if content == "" {
				continue
			}
			total += len(strings.Split(content, "\n"))
			valid++
		}
		if valid > 0 {
			metrics["avg_file_size"] = float64(total) / float64(valid)
		}
	}
	if len(configFiles) > 0 {
		metrics["code_to_config_ratio"] = float64(len(codeFiles)) / float64(len(configFiles))
	}

	depth := float64(len(all)) / 50.0
	if depth > 5.0 {
		depth = 5.0
	}
	metrics["dependency_depth"] = depth

	return metrics
}

var stackLanguages = []struct{ ext, name string }{
	{".py", "Python"},
	{".js", "JavaScript"},
	{".ts", "TypeScript"},
	{".java", "Java"},
	{".go", "Go"},
	{".cs", "C#"},
	{".php", "PHP"},
	{".rb", "Ruby"},
	{".swift", "Swift"},
	{".kt", "Kotlin"},
}

func techStack(all []string) map[string][]string {
	stack := make(map[string][]string)
	lower := make([]string, len(all))
	exts := make(map[string]bool)
	for i, f := range all {
		lower[i] = strings.ToLower(f)
		exts[strings.ToLower(filepath.Ext(f))] = true
	}

	for _, l := range stackLanguages {
		if exts[l.ext] {
			stack["Languages"] = append(stack["Languages"], l.name)
		}
	}

	add := func(bucket, name string, present bool) {
		if present {
			stack[bucket] = append(stack[bucket], name)
		}
	}

	add("Frameworks", "React", anyPath(all, ".jsx", ".tsx") || anyPath(lower, "react"))
	add("Frameworks", "Vue.js", anyPath(all, ".vue"))
	add("Frameworks", "Angular", anyPath(lower, "angular"))
	add("Frameworks", "Django", anyPath(lower, "django"))
	add("Frameworks", "Flask", anyPath(lower, "flask"))
	add("Frameworks", "Spring", anyPath(lower, "spring"))
	add("Frameworks", "Express.js", anyPath(lower, "express"))

	add("Databases", "PostgreSQL", anyPath(lower, "postgres"))
	add("Databases", "MySQL", anyPath(lower, "mysql"))
	add("Databases", "MongoDB", anyPath(lower, "mongo"))
	add("Databases", "Redis", anyPath(lower, "redis"))

	add("Tools", "Docker", anyPath(lower, "docker"))
	add("Tools", "Kubernetes", anyPath(lower, "kubernetes", "k8s"))
	add("Tools", "Webpack", anyPath(lower, "webpack"))
	add("Tools", "Jest", anyPath(lower, "jest"))

	add("Cloud/Infrastructure", "AWS", anyPath(lower, "aws"))
	add("Cloud/Infrastructure", "Google Cloud", anyPath(lower, "gcp", "google"))
	add("Cloud/Infrastructure", "Azure", anyPath(lower, "azure"))

	return stack
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func containsSubstring(items []string, sub string) bool {
	for _, s := range items {
		if strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func matchesAnyTerm(files []string, terms ...string) bool {
	for _, f := range files {
		fl := strings.ToLower(f)
		for _, t := range terms {
			if strings.Contains(fl, t) {
				return true
			}
		}
	}
	return false
}

func containsAnyExt(f string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.Contains(f, s) {
			return true
		}
	}
	return false
}
