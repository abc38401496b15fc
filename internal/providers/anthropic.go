package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/verdictdev/verdict/internal/config"
)

const defaultMaxTokens = 4096

// Anthropic implements the Provider interface using the Anthropic SDK.
type Anthropic struct {
	cfg    config.ProviderConfig
	client anthropic.Client
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(cfg config.ProviderConfig) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return &Anthropic{
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Validate() bool { return a.cfg.APIKey != "" }

func (a *Anthropic) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := a.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if a.cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(a.cfg.Temperature)
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic request: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return Response{}, fmt.Errorf("empty text content in API response")
	}

	return Response{
		Content:    content.String(),
		TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}
