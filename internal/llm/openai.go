package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// GeneratorOptions configures the OpenRouter-backed generator.
type GeneratorOptions struct {
	Client       *Client
	Model        string
	Temperature  float64
	SystemPrompt string
}

type openRouterGenerator struct {
	client       *Client
	logger       *logrus.Logger
	model        string
	temperature  float64
	systemPrompt string
}

var _ Generator = (*openRouterGenerator)(nil)

const (
	defaultGeneratorSystemPrompt = "You are an expert presentation writer. Follow the task instructions exactly and respond only with the requested output."
	defaultGeneratorTemperature  = 0.7
)

// NewGenerator constructs a Generator implementation backed by OpenRouter.
func NewGenerator(opts GeneratorOptions) (Generator, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, eris.New("generator model is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultGeneratorTemperature
	}

	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultGeneratorSystemPrompt
	}

	return &openRouterGenerator{
		client:       opts.Client,
		logger:       opts.Client.logger,
		model:        model,
		temperature:  temperature,
		systemPrompt: systemPrompt,
	}, nil
}

func (g *openRouterGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return "", eris.New("prompt is required")
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.systemPrompt),
			openai.UserMessage(trimmedPrompt),
		},
		Temperature: openai.Float(g.temperature),
	}

	completion, err := g.client.chat.New(ctx, params)
	if err != nil {
		logError(g.logger, logrus.Fields{"model": g.model}, err, "requesting chat completion")
		return "", eris.Wrap(err, "requesting chat completion")
	}

	if len(completion.Choices) == 0 {
		err := eris.New("llm completion returned no choices")
		logError(g.logger, logrus.Fields{"model": g.model}, err, "processing chat completion")
		return "", err
	}

	choice := completion.Choices[0]
	if reason := strings.TrimSpace(choice.FinishReason); strings.EqualFold(reason, "content_filter") {
		err := eris.New("llm blocked the request via content filter")
		logError(g.logger, logrus.Fields{"model": g.model}, err, "generator blocked")
		return "", err
	}

	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		err := eris.Errorf("llm refused to generate content: %s", refusal)
		logError(g.logger, logrus.Fields{"model": g.model}, err, "generator refused")
		return "", err
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		err := eris.New("llm response content is empty")
		logError(g.logger, logrus.Fields{"model": g.model}, err, "processing chat completion")
		return "", err
	}

	return content, nil
}
