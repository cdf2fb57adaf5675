package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

const (
	duckDuckGoEndpoint  = "https://html.duckduckgo.com/html/"
	duckDuckGoUserAgent = "Mozilla/5.0"
)

// DuckDuckGoOptions configures the DuckDuckGo HTML backend.
type DuckDuckGoOptions struct {
	HTTPClient *http.Client
	Endpoint   string
	UserAgent  string
}

// DuckDuckGo scrapes result snippets from the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

var _ Backend = (*DuckDuckGo)(nil)

// NewDuckDuckGo constructs the DuckDuckGo backend.
func NewDuckDuckGo(opts DuckDuckGoOptions) *DuckDuckGo {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = duckDuckGoUserAgent
	}

	return &DuckDuckGo{
		client:    client,
		endpoint:  endpoint,
		userAgent: userAgent,
	}
}

// Name identifies the backend in logs.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search fetches the result page for the topic and returns the text of every
// result snippet anchor, in document order.
func (d *DuckDuckGo) Search(ctx context.Context, topic string) ([]string, error) {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return nil, eris.New("topic is required")
	}

	query := url.Values{"q": []string{trimmed}}
	requestURL := d.endpoint + "?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "building duckduckgo request")
	}
	request.Header.Set("User-Agent", d.userAgent)

	response, err := d.client.Do(request)
	if err != nil {
		return nil, eris.Wrap(err, "requesting duckduckgo results")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, eris.Errorf("duckduckgo returned status %d", response.StatusCode)
	}

	document, err := html.Parse(response.Body)
	if err != nil {
		return nil, eris.Wrap(err, "parsing duckduckgo response")
	}

	return collectResultSnippets(document), nil
}

func collectResultSnippets(root *html.Node) []string {
	var snippets []string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" && hasClass(node, "result__snippet") {
			if text := strings.TrimSpace(nodeText(node)); text != "" {
				snippets = append(snippets, text)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return snippets
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, candidate := range strings.Fields(attr.Val) {
			if candidate == class {
				return true
			}
		}
	}
	return false
}

func nodeText(node *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(current *html.Node) {
		if current.Type == html.TextNode {
			builder.WriteString(current.Data)
		}
		for child := current.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return builder.String()
}
