package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const webResultCount = 3

// GoogleOptions configures the Google Programmable Search backend.
type GoogleOptions struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the API base URL, used by tests.
	Endpoint string
}

// Google queries the Programmable Search JSON API for result snippets.
type Google struct {
	service  *customsearch.Service
	engineID string
}

var _ Backend = (*Google)(nil)

// NewGoogle constructs the Google Programmable Search backend.
func NewGoogle(ctx context.Context, opts GoogleOptions) (*Google, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, eris.New("google search api key is required")
	}

	engineID := strings.TrimSpace(opts.EngineID)
	if engineID == "" {
		return nil, eris.New("custom search engine id is required")
	}

	clientOptions := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	service, err := customsearch.NewService(ctx, clientOptions...)
	if err != nil {
		return nil, eris.Wrap(err, "creating custom search service")
	}

	return &Google{
		service:  service,
		engineID: engineID,
	}, nil
}

// Name identifies the backend in logs.
func (g *Google) Name() string {
	return "google"
}

// Search returns the snippets of the top web results for the topic.
func (g *Google) Search(ctx context.Context, topic string) ([]string, error) {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return nil, eris.New("topic is required")
	}

	response, err := g.service.Cse.List().
		Q(trimmed).
		Cx(g.engineID).
		Num(webResultCount).
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrap(err, "querying google custom search")
	}

	snippets := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item == nil {
			continue
		}
		if snippet := strings.TrimSpace(item.Snippet); snippet != "" {
			snippets = append(snippets, snippet)
		}
	}

	return snippets, nil
}
