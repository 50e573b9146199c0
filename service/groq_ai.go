package service

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// GroqProvider is the fallback generation provider. Groq exposes an
// OpenAI-compatible API, so this reuses the OpenAI client with a custom
// base URL.
type GroqProvider struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewGroqProvider(baseURL, apiKey, model string) *GroqProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &GroqProvider{
		client: openai.NewClientWithConfig(config),
		apiKey: apiKey,
		model:  model,
	}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Model() string { return p.model }

func (p *GroqProvider) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	if p.apiKey == "" {
		return "", errors.New("GROQ_API_KEY is missing")
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: user,
				},
			},
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}
