package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GeminiOptions configures the Gemini-backed generator.
type GeminiOptions struct {
	APIKey      string
	Model       string
	Temperature float64
	Logger      *logrus.Logger
}

type geminiModelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	models      geminiModelClient
	logger      *logrus.Logger
	model       string
	temperature float32
}

var _ Generator = (*geminiGenerator)(nil)

// NewGeminiGenerator constructs a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (Generator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, eris.New("gemini api key is required")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, eris.New("gemini model is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultGeneratorTemperature
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating gemini client")
	}

	return &geminiGenerator{
		models:      client.Models,
		logger:      opts.Logger,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

func (g *geminiGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	trimmedPrompt := strings.TrimSpace(prompt)
	if trimmedPrompt == "" {
		return "", eris.New("prompt is required")
	}

	response, err := g.models.GenerateContent(ctx, g.model, genai.Text(trimmedPrompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		logError(g.logger, logrus.Fields{"model": g.model}, err, "requesting gemini completion")
		return "", eris.Wrap(err, "requesting gemini completion")
	}

	content := strings.TrimSpace(response.Text())
	if content == "" {
		err := eris.New("gemini response content is empty")
		logError(g.logger, logrus.Fields{"model": g.model}, err, "processing gemini completion")
		return "", err
	}

	return content, nil
}
