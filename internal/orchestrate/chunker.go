package orchestrate

import "strings"

// softCutRatio is the share of the chunk budget after which a new file
// header ends the running chunk.
const softCutRatio = 0.7

// ChunkDiff splits a diff into sequential pieces that each fit the token
// budget. It prefers to cut at file boundaries once a chunk is mostly
// full, and hard-splits mid-file when a single file exceeds the budget.
// A hard split can separate a hunk header from its body; callers must
// not assume hunk atomicity across chunk boundaries.
func ChunkDiff(diff string, maxChunkTokens int) []string {
	if EstimateTokens(diff) <= maxChunkTokens {
		return []string{diff}
	}

	var chunks []string
	var current []string
	currentTokens := 0
	softCut := int(float64(maxChunkTokens) * softCutRatio)

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
			currentTokens = 0
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		lineTokens := EstimateTokens(line)

		if strings.HasPrefix(line, "diff --git") || strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			if currentTokens > softCut {
				flush()
			}
		}
		if currentTokens+lineTokens > maxChunkTokens {
			flush()
		}

		current = append(current, line)
		currentTokens += lineTokens
	}
	flush()

	return chunks
}
