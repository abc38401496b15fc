package review

import "github.com/verdictdev/verdict/internal/arch"

// Severity represents the severity level of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 3
	case SeverityMinor:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
// Unrecognized thresholds gate nothing, the same as "none"; a typo in
// --fail-on must not turn every finding into a failure.
func MeetsThreshold(s Severity, threshold string) bool {
	rank := SeverityRank(Severity(threshold))
	if rank == 0 {
		return false
	}
	return SeverityRank(s) >= rank
}

// Category represents the type of finding. The set is open; these are
// the canonical values the prompt asks for.
type Category string

const (
	CategorySecurity       Category = "security"
	CategoryPerformance    Category = "performance"
	CategoryLogic          Category = "logic"
	CategoryStyle          Category = "style"
	CategoryBestPractice   Category = "best-practice"
	CategoryBreakingChange Category = "breaking-change"
	CategoryArchitecture   Category = "architecture"
	CategoryDesignPattern  Category = "design-pattern"
	CategorySystem         Category = "system"
)

// Finding represents a single code review finding.
type Finding struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	File        string   `json:"file"`
	LineStart   int      `json:"line_start"`
	LineEnd     int      `json:"line_end"`
	Message     string   `json:"message"`
	Suggestion  string   `json:"suggestion,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	FixedCode   string   `json:"fixed_code,omitempty"`
	Impact      string   `json:"impact,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
}

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// InputInfo describes what was reviewed.
type InputInfo struct {
	Mode  string `json:"mode"`
	Range string `json:"range,omitempty"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Info     int `json:"info"`
}

// Summary provides an overview of findings.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	HighestSeverity Severity       `json:"highestSeverity"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs   int64 `json:"gitMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool         string         `json:"tool"`
	Version      string         `json:"version"`
	RunID        string         `json:"runId"`
	Repo         RepoInfo       `json:"repo"`
	Inputs       InputInfo      `json:"inputs"`
	Summary      Summary        `json:"summary"`
	Findings     []Finding      `json:"findings"`
	Architecture *arch.Analysis `json:"architecture,omitempty"`
	Timing       Timing         `json:"timing"`
}

// ComputeSummary calculates the summary from findings.
func ComputeSummary(findings []Finding) Summary {
	var s Summary
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeverityMajor:
			s.Counts.Major++
		case SeverityMinor:
			s.Counts.Minor++
		case SeverityInfo:
			s.Counts.Info++
		}
		if SeverityRank(f.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = f.Severity
		}
	}
	return s
}
