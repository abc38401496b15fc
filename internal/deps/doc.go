// Package deps analyzes cross-file relationships for a changeset:
// exported symbols of changed files, files that appear to import them,
// syntactic breaking-change signals on removed lines, and related files
// reached through local import resolution.
//
// All heuristics are textual with an explicit over-approximation bias.
// The output widens the review prompt; it is not a dependency graph.
package deps
