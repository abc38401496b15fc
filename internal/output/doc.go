// Package output formats review reports for display or machine consumption.
//
// Three formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON report
//   - markdown — PR-comment-friendly with collapsible sections per severity
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*review.Report]. [WriteReport]
// is a convenience helper that handles destination selection.
package output
