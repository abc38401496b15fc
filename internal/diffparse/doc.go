// Package diffparse turns unified-diff text into structured hunks
// enriched with surrounding unchanged lines from the current file
// snapshot. Parsing is strictly best-effort and never returns an error:
// malformed input is skipped, not reported.
package diffparse
