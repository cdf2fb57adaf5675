package search

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// NoContext is the web context used when every backend failed or returned
// nothing usable.
const NoContext = "No specific web context found."

const (
	snippetsPerBackend    = 3
	defaultBackendTimeout = 10 * time.Second
)

// Backend retrieves search snippets for a topic from a single provider.
type Backend interface {
	Name() string
	Search(ctx context.Context, topic string) ([]string, error)
}

// AggregatorOptions configures the web context aggregator.
type AggregatorOptions struct {
	Backends []Backend
	Logger   *logrus.Logger
	Timeout  time.Duration
}

// Aggregator gathers web context for a topic by querying each configured
// backend in order.
type Aggregator struct {
	backends []Backend
	logger   *logrus.Logger
	timeout  time.Duration
}

// NewAggregator constructs an Aggregator from the supplied options.
func NewAggregator(opts AggregatorOptions) (*Aggregator, error) {
	if len(opts.Backends) == 0 {
		return nil, eris.New("at least one search backend is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}

	return &Aggregator{
		backends: opts.Backends,
		logger:   opts.Logger,
		timeout:  timeout,
	}, nil
}

// Collect queries every backend and joins the top snippets of each into one
// context string. A failing backend is logged and skipped; it never aborts
// collection. When no backend produced a usable snippet the NoContext
// sentinel is returned.
func (a *Aggregator) Collect(ctx context.Context, topic string) string {
	var parts []string

	for _, backend := range a.backends {
		backendCtx, cancel := context.WithTimeout(ctx, a.timeout)
		snippets, err := backend.Search(backendCtx, topic)
		cancel()

		if err != nil {
			a.logWarn(logrus.Fields{"backend": backend.Name(), "topic": topic}, err, "search backend failed")
			continue
		}

		taken := 0
		for _, snippet := range snippets {
			if taken == snippetsPerBackend {
				break
			}
			trimmed := strings.TrimSpace(snippet)
			if trimmed == "" {
				continue
			}
			parts = append(parts, trimmed)
			taken++
		}
	}

	if len(parts) == 0 {
		return NoContext
	}

	return strings.Join(parts, " ")
}

func (a *Aggregator) logWarn(fields logrus.Fields, err error, message string) {
	if a.logger == nil {
		return
	}

	entry := a.logger.WithFields(fields)
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}
	entry.Warn(message)
}
