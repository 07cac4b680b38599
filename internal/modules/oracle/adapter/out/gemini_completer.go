package out

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"chonchon/internal/modules/oracle/domain"
	oracleout "chonchon/internal/modules/oracle/port/out"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiOptions struct {
	Model       string
	Temperature float32
}

type GeminiCompleter struct {
	client *genai.Client
	opts   GeminiOptions
}

func NewGeminiCompleter(ctx context.Context, apiKey string, optFns ...func(o *GeminiOptions)) (oracleout.Completer, error) {
	opts := GeminiOptions{
		Model:       DefaultGeminiModel,
		Temperature: domain.DefaultTemperature,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiCompleter{client: client, opts: opts}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, system, question string) (string, error) {
	temperature := c.opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.opts.Model, genai.Text(question), config)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	return resp.Text(), nil
}
