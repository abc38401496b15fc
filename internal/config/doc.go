// Package config defines the verdict configuration: provider entries,
// the primary/fallback ordering, token budgets for the orchestrator, and
// output options.
//
// Configuration lives in a YAML file under the platform config directory
// and is merged over built-in defaults. Credentials are taken from the
// provider entry or, when empty, from the conventional environment
// variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, OPENROUTER_API_KEY).
//
// A Config is built once at startup and passed down explicitly so tests
// can inject fake providers and budgets.
package config
