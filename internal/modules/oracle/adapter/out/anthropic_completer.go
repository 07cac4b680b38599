package out

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"chonchon/internal/modules/oracle/domain"
	oracleout "chonchon/internal/modules/oracle/port/out"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type AnthropicOptions struct {
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
	MaxRetries  int
}

type AnthropicCompleter struct {
	client *anthropic.Client
	opts   AnthropicOptions
}

func NewAnthropicCompleter(apiKey string, optFns ...func(o *AnthropicOptions)) oracleout.Completer {
	opts := AnthropicOptions{
		Model:       DefaultAnthropicModel,
		Temperature: domain.DefaultTemperature,
		MaxTokens:   1024,
		MaxRetries:  2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = DefaultAnthropicModel
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)
	return &AnthropicCompleter{client: &client, opts: opts}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, system, question string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.opts.Model),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	return b.String(), nil
}
