package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/verdictdev/verdict/internal/config"
)

func TestOllamaComplete(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Response:        `[]`,
			PromptEvalCount: 100,
			EvalCount:       20,
		})
	}))
	defer server.Close()

	p := NewOllama(config.ProviderConfig{
		ID:          "ollama",
		Endpoint:    server.URL,
		Model:       "codellama",
		MaxTokens:   2000,
		Temperature: 0.1,
	})
	resp, err := p.Complete(context.Background(), Request{
		SystemPrompt: "You are an expert code reviewer.",
		UserPrompt:   "review this diff",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotReq.Model != "codellama" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("stream should be false")
	}
	if gotReq.Options.NumPredict != 2000 {
		t.Errorf("num_predict = %d, want 2000", gotReq.Options.NumPredict)
	}
	if !strings.HasPrefix(gotReq.Prompt, "You are an expert code reviewer.") ||
		!strings.Contains(gotReq.Prompt, "review this diff") {
		t.Errorf("prompt = %q, want system and user prompts combined", gotReq.Prompt)
	}
	if resp.Content != "[]" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("tokens = %d, want 120", resp.TokensUsed)
	}
}

func TestOllamaEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": ""}`))
	}))
	defer server.Close()

	p := NewOllama(config.ProviderConfig{ID: "ollama", Endpoint: server.URL, Model: "codellama"})
	_, err := p.Complete(context.Background(), Request{UserPrompt: "review"})
	if err == nil || !strings.Contains(err.Error(), "empty text content") {
		t.Errorf("err = %v, want empty-content error", err)
	}
}

func TestOllamaValidateRequiresEndpoint(t *testing.T) {
	// The default endpoint is filled in, so Validate always passes.
	p := NewOllama(config.ProviderConfig{ID: "ollama", Model: "codellama"})
	if !p.Validate() {
		t.Error("Validate should pass with the default endpoint")
	}
	if p.endpoint != defaultOllamaURL {
		t.Errorf("endpoint = %q, want %q", p.endpoint, defaultOllamaURL)
	}
}
