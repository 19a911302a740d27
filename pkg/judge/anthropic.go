package judge

import (
	"context"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/pkg/errors"
)

// anthropicBackend is the primary judge backend. The SDK reads
// ANTHROPIC_API_KEY from the environment.
type anthropicBackend struct {
	client anthropic.Client
}

func newAnthropicBackend() *anthropicBackend {
	return &anthropicBackend{client: anthropic.NewClient()}
}

func (b *anthropicBackend) Name() string {
	return "anthropic"
}

func (b *anthropicBackend) Complete(ctx context.Context, model, prompt string, maxTokens int) (string, int, int, error) {
	response, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "anthropic message failed")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}
	if text.Len() == 0 {
		return "", 0, 0, errors.New("anthropic response contained no text")
	}

	return text.String(), int(response.Usage.InputTokens), int(response.Usage.OutputTokens), nil
}

// detectBackend picks a provider from the environment, preferring
// Anthropic.
func detectBackend() Backend {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return newAnthropicBackend()
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return newOpenAIBackend(os.Getenv("OPENAI_API_KEY"))
	}
	return nil
}
