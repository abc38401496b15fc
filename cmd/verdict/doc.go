// Verdict is a CLI for reviewing code changes with AI providers.
//
// It reviews unstaged, staged, and revision-range diffs with contextual
// analysis (surrounding code, cross-file dependencies, architecture
// patterns), falls back across providers when one fails, and emits
// structured findings with deterministic exit codes suitable for CI
// gating and git hooks.
//
// Usage:
//
//	verdict review unstaged              # review working tree changes
//	verdict review staged                # review staged changes
//	verdict review range main...HEAD     # review a revision range
//	verdict providers list               # show provider status
//	verdict hook install                 # install the pre-commit hook
//
// See https://github.com/verdictdev/verdict for full documentation.
package main
