package answer

import (
	"context"
	"errors"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/lmeyers/treatybot/internal/log"
)

// Generator calls the completion model through Genkit. It implements
// Completer with transient-error retry.
type Generator struct {
	g         *genkit.Genkit
	modelName string // provider-qualified, e.g. "googleai/gemini-2.5-flash"
	retry     RetryConfig
	logger    log.Logger
}

// NewGenerator creates a Generator. A nil logger falls back to a no-op
// logger.
func NewGenerator(g *genkit.Genkit, modelName string, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Generator{
		g:         g,
		modelName: modelName,
		retry:     DefaultRetryConfig(),
		logger:    logger,
	}
}

// Complete sends the question and the assembled passage context to the
// model and returns the answer text.
func (gen *Generator) Complete(ctx context.Context, question, passages string, temperature float64) (string, error) {
	resp, err := generateWithRetry(ctx, gen.retry, gen.logger,
		func(ctx context.Context) (*ai.ModelResponse, error) {
			return genkit.Generate(ctx, gen.g,
				ai.WithModelName(gen.modelName),
				ai.WithSystem(systemPrompt),
				ai.WithMessages(buildMessages(question, passages)...),
				ai.WithConfig(&genai.GenerateContentConfig{
					Temperature: genai.Ptr(float32(temperature)),
				}),
			)
		})
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("model returned empty answer")
	}
	return text, nil
}
