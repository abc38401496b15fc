// Package arch detects architecture patterns, structural issues, and the
// technology stack from a project's file listing and changed files.
package arch
