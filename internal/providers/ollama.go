package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verdictdev/verdict/internal/config"
)

const defaultOllamaURL = "http://localhost:11434/api/generate"

// Ollama implements the Provider interface against a local Ollama server's
// generate API. No API key is required.
type Ollama struct {
	cfg      config.ProviderConfig
	endpoint string
	client   *http.Client
}

// NewOllama creates a new Ollama provider.
func NewOllama(cfg config.ProviderConfig) *Ollama {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOllamaURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return &Ollama{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Validate() bool { return o.endpoint != "" }

func (o *Ollama) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := o.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	prompt := req.UserPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.UserPrompt
	}

	body := generateRequest{
		Model:  o.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: o.cfg.Temperature,
			NumPredict:  maxTokens,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	var resp Response
	err = retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := o.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if httpResp.StatusCode >= 500 {
			return &serverError{statusCode: httpResp.StatusCode, body: string(respBody)}
		}
		if httpResp.StatusCode != 200 {
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
		}

		var result generateResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
		if result.Response == "" {
			return fmt.Errorf("empty text content in API response")
		}

		resp = Response{
			Content:    result.Response,
			TokensUsed: result.PromptEvalCount + result.EvalCount,
		}
		return nil
	})

	return resp, err
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}
