package providers

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/verdictdev/verdict/internal/config"
)

// OpenAI implements the Provider interface using the OpenAI SDK.
type OpenAI struct {
	cfg    config.ProviderConfig
	client openai.Client
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(cfg config.ProviderConfig) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return &OpenAI{
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Validate() bool { return o.cfg.APIKey != "" }

func (o *OpenAI) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := o.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := responses.ResponseNewParams{
		Model:           shared.ResponsesModel(o.cfg.Model),
		MaxOutputTokens: openai.Int(int64(maxTokens)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(req.UserPrompt)},
	}
	if req.SystemPrompt != "" {
		params.Instructions = openai.String(req.SystemPrompt)
	}
	if o.cfg.Temperature > 0 {
		params.Temperature = openai.Float(o.cfg.Temperature)
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("openai request: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return Response{}, fmt.Errorf("empty text content in API response")
	}

	return Response{
		Content:    content,
		TokensUsed: int(resp.Usage.TotalTokens),
	}, nil
}
