package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tieubaoca/line-assistant-be/types"
	"go.uber.org/zap"
)

const systemPromptTemplate = `You are a helpful and intelligent assistant answering end-user questions.
Your knowledge comes from the following context:

<KnowledgeContext>
%s
</KnowledgeContext>

Instructions:
1. Answer the user's question based *primarily* on the context above.
2. If the answer is not in the context, use your general knowledge but mention that this specific information might not be in the knowledge base.
3. Be polite, concise, and helpful.
4. Respond in %s.`

// GenerateService produces the answer for one inbound message. It never
// returns an error: when every provider in the chain fails, the result is an
// apology that embeds each captured failure, with Provider set to "none".
type GenerateService interface {
	Generate(ctx context.Context, query, knowledgeContext string) *types.GenerateResult
}

type generateService struct {
	providers   []Provider
	temperature float32
	timeout     time.Duration
	language    string
}

// NewGenerateService builds the provider chain. Providers are tried in
// order, first success wins; there is no retry beyond walking the chain once.
func NewGenerateService(providers []Provider, temperature float32, timeout time.Duration, language string) GenerateService {
	return &generateService{
		providers:   providers,
		temperature: temperature,
		timeout:     timeout,
		language:    language,
	}
}

func (s *generateService) Generate(ctx context.Context, query, knowledgeContext string) *types.GenerateResult {
	system := fmt.Sprintf(systemPromptTemplate, knowledgeContext, s.language)

	failures := make([]string, 0, len(s.providers))
	for _, provider := range s.providers {
		text, err := s.complete(ctx, provider, system, query)
		if err != nil {
			zap.L().Warn("provider failed, trying next",
				zap.String("provider", provider.Name()),
				zap.Error(err))
			failures = append(failures, fmt.Sprintf("[%s error]: %s", provider.Name(), err.Error()))
			continue
		}
		return &types.GenerateResult{
			Text:     text,
			Provider: provider.Name(),
			Model:    provider.Model(),
		}
	}

	return &types.GenerateResult{
		Text:     apologyText(failures),
		Provider: types.ProviderNone,
		Model:    types.ProviderNone,
	}
}

func (s *generateService) complete(ctx context.Context, provider Provider, system, user string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return provider.Complete(ctx, system, user, s.temperature)
}

// apologyText keeps the raw provider errors visible in the reply so an
// operator reading the chat can tell what went wrong.
func apologyText(failures []string) string {
	var sb strings.Builder
	sb.WriteString("抱歉，系統目前忙碌中 (AI Service Unavailable)。")
	for _, failure := range failures {
		sb.WriteString("\n\n")
		sb.WriteString(failure)
	}
	return sb.String()
}
