// Package review drives a single code review: it gathers diff, file,
// dependency, and architecture context into a bundle, prompts the
// configured AI providers through the orchestrator, and parses the
// replies into a structured Report.
package review
