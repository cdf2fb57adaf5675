package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/cpiyush04/AI-Deck-Generator/internal/llm"
)

const enrichPromptTemplate = `Act as a Visual Asset Director. For each slide with a "type" of "key_point_slide" in the following JSON object, add a simple, one or two-word "image_query".
This query should be perfect for finding a high-quality stock photo on a site like Pixabay or Google Images.
Return the entire JSON object, now including the "image_query" fields where appropriate.

JSON Input:
%s

Return nothing but the updated, raw JSON object.`

// EnricherOptions configures the image query enrichment stage.
type EnricherOptions struct {
	Generator llm.Generator
	Logger    *logrus.Logger
}

// Enricher asks the model to supply an image query for every key point slide.
type Enricher struct {
	generator llm.Generator
	logger    *logrus.Logger
}

// NewEnricher constructs the enrichment stage.
func NewEnricher(opts EnricherOptions) (*Enricher, error) {
	if opts.Generator == nil {
		return nil, eris.New("llm generator is required")
	}

	return &Enricher{
		generator: opts.Generator,
		logger:    opts.Logger,
	}, nil
}

// Enrich returns a copy of the content whose key point slides carry the image
// queries suggested by the model. Everything except those queries is copied
// from the input. Any failure returns the input unchanged.
func (e *Enricher) Enrich(ctx context.Context, content *Content) *Content {
	if content == nil {
		return nil
	}

	payload, err := json.Marshal(content)
	if err != nil {
		e.logWarn(err, "serializing content for enrichment")
		return content
	}

	raw, err := e.generator.Complete(ctx, fmt.Sprintf(enrichPromptTemplate, payload))
	if err != nil {
		e.logWarn(err, "requesting image queries")
		return content
	}

	extracted, err := extractJSONPayload(raw)
	if err != nil {
		e.logWarn(err, "extracting enrichment payload")
		return content
	}

	var enriched Content
	if err := json.Unmarshal([]byte(extracted), &enriched); err != nil {
		e.logWarn(err, "decoding enrichment payload")
		return content
	}

	if err := matchesShape(content, &enriched); err != nil {
		e.logWarn(err, "validating enrichment payload")
		return content
	}

	merged := content.Clone()
	for idx := range merged.Slides {
		if merged.Slides[idx].Type != SlideTypeKeyPoint {
			continue
		}
		merged.Slides[idx].ImageQuery = strings.TrimSpace(enriched.Slides[idx].ImageQuery)
	}

	return merged
}

func matchesShape(original, enriched *Content) error {
	if len(enriched.Slides) != len(original.Slides) {
		return eris.Errorf("enriched slide count %d differs from input %d", len(enriched.Slides), len(original.Slides))
	}

	for idx := range original.Slides {
		if enriched.Slides[idx].Type != original.Slides[idx].Type {
			return eris.Errorf("enriched slide %d type %q differs from input %q",
				idx, enriched.Slides[idx].Type, original.Slides[idx].Type)
		}
	}

	return nil
}

func (e *Enricher) logWarn(err error, message string) {
	if e.logger == nil {
		return
	}

	entry := e.logger.WithField("component", "deck.enricher")
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}
	entry.Warn(message)
}
