// Package filectx derives lightweight per-file context (language,
// imports, function and class names) from file content using lexical
// heuristics. Each language's rules live in a strategy table, so adding
// a language is additive. All lists are capped to keep prompts bounded.
package filectx
