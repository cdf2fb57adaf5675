package deck

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cpiyush04/AI-Deck-Generator/internal/images"
	"github.com/cpiyush04/AI-Deck-Generator/internal/render"
)

// ErrMalformedContent indicates the content cannot produce a deck at all.
var ErrMalformedContent = eris.New("malformed presentation content")

const (
	defaultSlideTitle    = "Untitled Slide"
	defaultPrefetchLimit = 4
)

// SlideRenderer draws slide canvases and binds them into a document.
type SlideRenderer interface {
	TitleSlide(title, subtitle string) (*render.Slide, error)
	ContentSlide(title string, points []string, size float64) (*render.Slide, error)
	TwoColumnSlide(title string, points []string, size float64, img image.Image) (*render.Slide, error)
	Theme() render.Theme
	EncodePDF(slides []*render.Slide) ([]byte, error)
}

var _ SlideRenderer = (*render.Renderer)(nil)

// Deck is the assembled result: the rendered slides in input order and their
// serialized document.
type Deck struct {
	Slides []*render.Slide
	PDF    []byte
}

// AssemblerOptions configures deck assembly. Images may be nil; key point
// slides then render without images.
type AssemblerOptions struct {
	Renderer      SlideRenderer
	Images        images.Source
	Logger        *logrus.Logger
	PrefetchLimit int
}

// Assembler turns slide content into a rendered, serialized deck.
type Assembler struct {
	renderer      SlideRenderer
	images        images.Source
	logger        *logrus.Logger
	prefetchLimit int
}

// NewAssembler constructs the assembly stage.
func NewAssembler(opts AssemblerOptions) (*Assembler, error) {
	if opts.Renderer == nil {
		return nil, eris.New("slide renderer is required")
	}

	limit := opts.PrefetchLimit
	if limit <= 0 {
		limit = defaultPrefetchLimit
	}

	return &Assembler{
		renderer:      opts.Renderer,
		images:        opts.Images,
		logger:        opts.Logger,
		prefetchLimit: limit,
	}, nil
}

// Assemble renders one slide per recognized content entry, in input order,
// and serializes the deck once at the end. Image failures degrade the
// affected slide to the single content layout; unrecognized slide types are
// skipped; only structurally invalid content aborts.
func (a *Assembler) Assemble(ctx context.Context, content *Content, topic string) (*Deck, error) {
	if content == nil || content.Slides == nil {
		return nil, eris.Wrap(ErrMalformedContent, "content has no slides list")
	}

	assets := a.prefetchImages(ctx, content.Slides, topic)

	theme := a.renderer.Theme()
	slides := make([]*render.Slide, 0, len(content.Slides))

	for idx, slideContent := range content.Slides {
		title := strings.TrimSpace(slideContent.Title)
		if title == "" {
			title = defaultSlideTitle
		}

		var (
			slide *render.Slide
			err   error
		)

		switch slideContent.Type {
		case SlideTypeTitle:
			slide, err = a.renderer.TitleSlide(title, fmt.Sprintf("A Presentation on %s", topic))
		case SlideTypeOverview, SlideTypeConclusion:
			slide, err = a.renderer.ContentSlide(title, slideContent.Points, theme.BodySize)
		case SlideTypeKeyPoint:
			slide, err = a.renderKeyPoint(idx, title, slideContent.Points, assets[idx], theme)
		default:
			a.logWarn(logrus.Fields{"index": idx, "type": string(slideContent.Type)}, nil, "skipping unrecognized slide type")
			continue
		}

		if err != nil {
			return nil, eris.Wrapf(err, "rendering slide %d", idx)
		}
		slides = append(slides, slide)
	}

	if len(slides) == 0 {
		return nil, eris.Wrap(ErrMalformedContent, "content produced no recognizable slides")
	}

	pdf, err := a.renderer.EncodePDF(slides)
	if err != nil {
		return nil, eris.Wrap(err, "serializing deck")
	}

	return &Deck{Slides: slides, PDF: pdf}, nil
}

func (a *Assembler) renderKeyPoint(idx int, title string, points []string, asset *images.Asset, theme render.Theme) (*render.Slide, error) {
	if asset != nil {
		decoded, err := asset.Decode()
		if err != nil {
			a.logWarn(logrus.Fields{"index": idx}, err, "decoding prefetched image; slide renders without it")
		} else {
			return a.renderer.TwoColumnSlide(title, points, theme.KeyPointSize, decoded)
		}
	}

	return a.renderer.ContentSlide(title, points, theme.KeyPointSize)
}

// prefetchImages acquires the image for every key point slide, bounded and
// slotted by index so slide order never depends on fetch timing. Failures
// leave the slot nil.
func (a *Assembler) prefetchImages(ctx context.Context, slides []SlideContent, topic string) []*images.Asset {
	assets := make([]*images.Asset, len(slides))

	if a.images == nil {
		for _, slideContent := range slides {
			if slideContent.Type == SlideTypeKeyPoint {
				a.logWarn(nil, nil, "image source not configured; key point slides render without images")
				break
			}
		}
		return assets
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.prefetchLimit)

	for idx, slideContent := range slides {
		if slideContent.Type != SlideTypeKeyPoint {
			continue
		}

		query := strings.TrimSpace(slideContent.ImageQuery)
		if query == "" {
			query = topic
		}

		group.Go(func() error {
			asset, err := a.images.Acquire(groupCtx, query)
			if err != nil {
				a.logWarn(logrus.Fields{"index": idx, "query": query}, err, "image acquisition failed; slide degrades to single content")
				return nil
			}
			assets[idx] = asset
			return nil
		})
	}

	// Workers absorb their own failures, so Wait only synchronizes.
	_ = group.Wait()

	return assets
}

func (a *Assembler) logWarn(fields logrus.Fields, err error, message string) {
	if a.logger == nil {
		return
	}

	entry := a.logger.WithFields(fields)
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}
	entry.Warn(message)
}
