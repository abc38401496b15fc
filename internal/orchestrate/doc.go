// Package orchestrate drives review requests against the configured AI
// providers. It estimates token cost, filters extremely large diffs
// down to the highest-priority files, splits what remains into chunks
// that fit the per-request budget, and walks the primary/fallback
// provider chain for each chunk.
package orchestrate
