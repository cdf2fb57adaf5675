package images

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// ErrNoImage indicates a search returned no usable image result.
var ErrNoImage = eris.New("no image result")

// Searcher resolves an image query to the URL of the top result.
type Searcher interface {
	TopLink(ctx context.Context, query string) (string, error)
}

// GoogleSearcherOptions configures the Programmable Search image searcher.
type GoogleSearcherOptions struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the API base URL, used by tests.
	Endpoint string
}

// GoogleSearcher queries the Programmable Search JSON API for images.
type GoogleSearcher struct {
	service  *customsearch.Service
	engineID string
}

var _ Searcher = (*GoogleSearcher)(nil)

// NewGoogleSearcher constructs the Programmable Search image searcher.
func NewGoogleSearcher(ctx context.Context, opts GoogleSearcherOptions) (*GoogleSearcher, error) {
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

	return &GoogleSearcher{
		service:  service,
		engineID: engineID,
	}, nil
}

// TopLink returns the URL of the first image result for the query.
func (s *GoogleSearcher) TopLink(ctx context.Context, query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", eris.New("query is required")
	}

	response, err := s.service.Cse.List().
		Q(trimmed).
		Cx(s.engineID).
		SearchType("image").
		Num(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", eris.Wrap(err, "querying image search")
	}

	if len(response.Items) == 0 || response.Items[0] == nil {
		return "", ErrNoImage
	}

	link := strings.TrimSpace(response.Items[0].Link)
	if link == "" {
		return "", ErrNoImage
	}

	return link, nil
}
