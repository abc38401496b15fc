// Package gitctx is the version-control collaborator for the review
// core. It shells out to git for diffs (unstaged, staged, revision
// range), file content at a ref, and a capped project file listing.
//
// The Source interface is the only surface the analyzers depend on, so
// tests substitute in-memory fakes instead of real repositories.
package gitctx
