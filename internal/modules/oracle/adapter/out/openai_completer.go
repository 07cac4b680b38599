package out

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"chonchon/internal/modules/oracle/domain"
	oracleout "chonchon/internal/modules/oracle/port/out"
)

const DefaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAIOptions configure the OpenAI completer. BaseURL points at any OpenAI-compatible API.
type OpenAIOptions struct {
	Model       string
	BaseURL     string
	Temperature float64
	MaxRetries  int
}

type OpenAICompleter struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAICompleter(apiKey string, optFns ...func(o *OpenAIOptions)) oracleout.Completer {
	opts := OpenAIOptions{
		Model:       DefaultOpenAIModel,
		Temperature: domain.DefaultTemperature,
		MaxRetries:  2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAICompleter{client: &client, opts: opts}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, question string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(c.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
