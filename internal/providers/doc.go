// Package providers implements the AI provider abstraction.
//
// Supported providers:
//   - anthropic: Claude models via the Anthropic SDK
//   - openai: GPT models via the OpenAI SDK
//   - openrouter: any model behind OpenRouter's OpenAI-compatible API
//   - ollama: local models via an Ollama server (no API key required)
//
// Providers with missing credentials are dropped from the registry at
// build time so a single misconfigured provider never blocks a review.
package providers
