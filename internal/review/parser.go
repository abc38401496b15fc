package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawFinding is the JSON structure returned by the AI. Line numbers are
// pointers so a missing field is distinguishable from line zero.
type rawFinding struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	File        string `json:"file"`
	LineStart   *int   `json:"line_start"`
	LineEnd     *int   `json:"line_end"`
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion"`
	CodeSnippet string `json:"code_snippet"`
	FixedCode   string `json:"fixed_code"`
	Impact      string `json:"impact"`
	Confidence  string `json:"confidence"`
}

// ParseFindings extracts findings from a raw AI reply. Model output is
// adversarial: fenced, wrapped in prose, line-broken, or dangling
// commas. The cleaning pipeline tolerates all of those; when nothing
// parseable remains, a single synthetic informational finding is
// returned instead of an empty list so the operator always sees why.
func ParseFindings(raw string) []Finding {
	findings, err := parseFindings(raw)
	if err != nil {
		return []Finding{fallbackFinding()}
	}
	return findings
}

func parseFindings(raw string) ([]Finding, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	// Discard prose before the first '[' and after the last ']'.
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end != -1 && end > start {
		text = text[start : end+1]
	}

	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	// Common trailing-comma malformations.
	text = strings.ReplaceAll(text, `",}`, `"}`)
	text = strings.ReplaceAll(text, ",]", "]")

	var raws []rawFinding
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raws); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	findings := make([]Finding, 0, len(raws))
	for i, r := range raws {
		if r.Severity == "" || r.Category == "" || r.File == "" || r.Message == "" ||
			r.LineStart == nil || r.LineEnd == nil {
			return nil, fmt.Errorf("finding %d is missing a required field", i)
		}
		findings = append(findings, Finding{
			Severity:    Severity(r.Severity),
			Category:    Category(r.Category),
			File:        r.File,
			LineStart:   *r.LineStart,
			LineEnd:     *r.LineEnd,
			Message:     r.Message,
			Suggestion:  r.Suggestion,
			CodeSnippet: r.CodeSnippet,
			FixedCode:   r.FixedCode,
			Impact:      r.Impact,
			Confidence:  r.Confidence,
		})
	}
	return findings, nil
}

func fallbackFinding() Finding {
	return Finding{
		Severity:   SeverityInfo,
		Category:   CategorySystem,
		File:       "unknown",
		LineStart:  1,
		LineEnd:    1,
		Message:    "AI model returned malformed response - please try again or switch models",
		Suggestion: "Consider using a different AI model or reducing diff complexity",
		Impact:     "Unable to analyze code due to parsing issues",
		Confidence: "low",
	}
}
