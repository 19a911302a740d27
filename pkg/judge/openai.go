package judge

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// openaiBackend is the fallback judge backend, used when only
// OPENAI_API_KEY is configured.
type openaiBackend struct {
	client *openai.Client
}

func newOpenAIBackend(apiKey string) *openaiBackend {
	return &openaiBackend{client: openai.NewClient(apiKey)}
}

func (b *openaiBackend) Name() string {
	return "openai"
}

func (b *openaiBackend) Complete(ctx context.Context, model, prompt string, maxTokens int) (string, int, int, error) {
	// The configured model names an Anthropic model for the primary
	// backend; OpenAI calls use their own default.
	if strings.HasPrefix(model, "claude") {
		model = openai.GPT4o
	}

	response, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "openai chat completion failed")
	}
	if len(response.Choices) == 0 {
		return "", 0, 0, errors.New("openai response contained no choices")
	}

	return response.Choices[0].Message.Content,
		response.Usage.PromptTokens,
		response.Usage.CompletionTokens,
		nil
}
