package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultAcquireTimeout = 15 * time.Second
	maxDownloadBytes      = 20 << 20
)

// Source produces a normalized image asset for a query.
type Source interface {
	Acquire(ctx context.Context, query string) (*Asset, error)
}

// ServiceOptions configures the image acquisition service.
type ServiceOptions struct {
	Searcher   Searcher
	HTTPClient *http.Client
	Logger     *logrus.Logger
	Timeout    time.Duration
}

// Service resolves a query to the top image result and downloads it,
// normalized to PNG.
type Service struct {
	searcher Searcher
	client   *http.Client
	logger   *logrus.Logger
	timeout  time.Duration
}

var _ Source = (*Service)(nil)

// NewService constructs the image acquisition service.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Searcher == nil {
		return nil, eris.New("image searcher is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}

	return &Service{
		searcher: opts.Searcher,
		client:   client,
		logger:   opts.Logger,
		timeout:  timeout,
	}, nil
}

// Acquire resolves the query to its top image result, downloads the bytes,
// and re-encodes them as PNG. Every step runs under the configured timeout.
func (s *Service) Acquire(ctx context.Context, query string) (*Asset, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, eris.New("query is required")
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, s.timeout)
	link, err := s.searcher.TopLink(searchCtx, trimmed)
	cancelSearch()
	if err != nil {
		return nil, eris.Wrapf(err, "searching image for query %q", trimmed)
	}

	downloadCtx, cancelDownload := context.WithTimeout(ctx, s.timeout)
	raw, err := s.download(downloadCtx, link)
	cancelDownload()
	if err != nil {
		return nil, eris.Wrapf(err, "downloading image %q", link)
	}

	asset, err := normalize(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "normalizing image %q", link)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"query":  trimmed,
			"format": asset.SourceFormat,
			"bytes":  len(asset.PNG),
		}).Debug("image acquired")
	}

	return asset, nil
}

func (s *Service) download(ctx context.Context, link string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, eris.Wrap(err, "building download request")
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, eris.Wrap(err, "requesting image")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, eris.Errorf("image host returned status %d", response.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "reading image body")
	}
	if len(raw) > maxDownloadBytes {
		return nil, eris.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}

	return raw, nil
}

func normalize(raw []byte) (*Asset, error) {
	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "decoding image")
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, decoded); err != nil {
		return nil, eris.Wrap(err, "encoding png")
	}

	return &Asset{
		PNG:          buffer.Bytes(),
		SourceFormat: format,
	}, nil
}
