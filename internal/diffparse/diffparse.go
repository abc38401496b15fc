package diffparse

import (
	"regexp"
	"strings"
)

// contextWindow is the number of unchanged lines captured on each side
// of a hunk from the current file snapshot.
const contextWindow = 10

// Hunk is one contiguous block of a unified diff for a single file,
// bounded by an "@@ -old +new @@" header, plus the unchanged lines that
// surround it in the post-image file. Hunks are immutable once built and
// scoped to the review that produced them.
type Hunk struct {
	FilePath      string
	OldStart      int
	OldCount      int
	NewStart      int
	NewCount      int
	Lines         []string
	ContextBefore []string
	ContextAfter  []string
}

// ContentFunc supplies the current content of a file so hunks can carry
// surrounding context. Returning "" yields empty context, never an error.
type ContentFunc func(path string) string

var (
	filePathRe   = regexp.MustCompile(`^diff --git .* b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

// Parse turns a git-style unified diff into structured hunks. Parsing is
// best-effort: malformed headers fall back to count=1, unknown lines are
// skipped, and the function never fails. A diff with no hunk headers
// yields nil.
func Parse(diffText string, content ContentFunc) []Hunk {
	if content == nil {
		content = func(string) string { return "" }
	}

	var hunks []Hunk
	var currentFile string
	var current *Hunk

	flush := func() {
		if current == nil || currentFile == "" {
			return
		}
		h := *current
		h.ContextBefore, h.ContextAfter = contextWindows(content(h.FilePath), h.NewStart, h.NewCount)
		hunks = append(hunks, h)
		current = nil
	}

	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush()
			currentFile = ""
			if m := filePathRe.FindStringSubmatch(line); m != nil {
				currentFile = m[1]
			}

		case strings.HasPrefix(line, "@@"):
			if currentFile == "" {
				continue
			}
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			flush()
			current = &Hunk{
				FilePath: currentFile,
				OldStart: atoi(m[1]),
				OldCount: atoiDefault(m[2], 1),
				NewStart: atoi(m[3]),
				NewCount: atoiDefault(m[4], 1),
			}

		default:
			if current == nil {
				continue
			}
			if len(line) > 0 && (line[0] == ' ' || line[0] == '+' || line[0] == '-') {
				current.Lines = append(current.Lines, line)
			}
		}
	}
	flush()

	return hunks
}

// contextWindows slices the ±contextWindow unchanged lines around a
// hunk's new-range out of the file snapshot. An empty snapshot (new,
// deleted, or binary file) produces empty windows.
func contextWindows(snapshot string, newStart, newCount int) (before, after []string) {
	if snapshot == "" {
		return nil, nil
	}
	lines := strings.Split(snapshot, "\n")

	beforeStart := newStart - contextWindow
	if beforeStart < 1 {
		beforeStart = 1
	}
	before = sliceLines(lines, beforeStart, newStart-1)

	afterStart := newStart + newCount
	after = sliceLines(lines, afterStart, afterStart+contextWindow-1)
	return before, after
}

// sliceLines returns lines[start..end] in 1-based inclusive coordinates,
// clamped to the file bounds.
func sliceLines(lines []string, start, end int) []string {
	startIdx := start - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if startIdx >= end {
		return nil
	}
	out := make([]string, end-startIdx)
	copy(out, lines[startIdx:end])
	return out
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	return atoi(s)
}
