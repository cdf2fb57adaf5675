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

// ErrContentGeneration indicates the model call or its payload failed. The
// pipeline cannot continue without content.
var ErrContentGeneration = eris.New("content generation failed")

const contentPromptTemplate = `Act as a Content Strategist. Your task is to generate the text content for a presentation about "%s".
Use the provided web context: "%s".
You MUST follow this presentation plan exactly: %s.

For each slide in the plan, generate a "title" and a list of "points".
*** IMPORTANT: Generate only 4 or 5 bullet points per slide. Each point must be a short but explanatory sentence, not just a heading. ***

Return a single, raw JSON object that contains a "slides" key, which is a list of slide objects with the content filled in.

Example output structure:
{
    "slides": [
        {"type": "title_slide", "title": "The Evolution of Artificial Intelligence", "points": []},
        {"type": "overview_slide", "title": "Overview", "points": ["Exploring the foundational concepts of AI.", "Covering the major milestones and breakthroughs."]},
        {"type": "key_point_slide", "title": "Early Concepts and the Turing Test", "points": ["Alan Turing's 1950 paper proposed a test for machine intelligence, now known as the Turing Test.", "Early research focused on problem-solving and symbolic methods."]},
        {"type": "conclusion_slide", "title": "Conclusion", "points": ["AI has evolved from simple concepts to complex neural networks.", "The future of AI holds immense potential for innovation across all industries."]}
    ]
}`

// ContentGeneratorOptions configures the content generation stage.
type ContentGeneratorOptions struct {
	Generator llm.Generator
	Logger    *logrus.Logger
}

// ContentGenerator turns a topic, its web context, and a plan into slide
// content via the model.
type ContentGenerator struct {
	generator llm.Generator
	logger    *logrus.Logger
}

// NewContentGenerator constructs the content generation stage.
func NewContentGenerator(opts ContentGeneratorOptions) (*ContentGenerator, error) {
	if opts.Generator == nil {
		return nil, eris.New("llm generator is required")
	}

	return &ContentGenerator{
		generator: opts.Generator,
		logger:    opts.Logger,
	}, nil
}

// Generate produces content for every slide in the plan. Call and payload
// failures wrap ErrContentGeneration; slide count or type drift against the
// plan is logged but tolerated.
func (g *ContentGenerator) Generate(ctx context.Context, topic, webContext string, plan Plan) (*Content, error) {
	trimmedTopic := strings.TrimSpace(topic)
	if trimmedTopic == "" {
		return nil, eris.New("topic is required")
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, eris.Wrapf(ErrContentGeneration, "serializing plan: %v", err)
	}

	prompt := fmt.Sprintf(contentPromptTemplate, trimmedTopic, webContext, planJSON)

	raw, err := g.generator.Complete(ctx, prompt)
	if err != nil {
		g.logError(logrus.Fields{"topic": trimmedTopic}, err, "requesting slide content")
		return nil, eris.Wrapf(ErrContentGeneration, "requesting slide content: %v", err)
	}

	payload, err := extractJSONPayload(raw)
	if err != nil {
		g.logError(logrus.Fields{"topic": trimmedTopic}, err, "extracting content payload")
		return nil, eris.Wrapf(ErrContentGeneration, "extracting content payload: %v", err)
	}

	var content Content
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		g.logError(logrus.Fields{"topic": trimmedTopic}, err, "decoding content payload")
		return nil, eris.Wrapf(ErrContentGeneration, "decoding content payload: %v", err)
	}

	g.logPlanDrift(plan, &content)

	return &content, nil
}

func (g *ContentGenerator) logPlanDrift(plan Plan, content *Content) {
	if g.logger == nil {
		return
	}

	if len(content.Slides) != len(plan.Slides) {
		g.logger.WithFields(logrus.Fields{
			"planned":   len(plan.Slides),
			"generated": len(content.Slides),
		}).Warn("generated slide count differs from plan")
	}

	limit := min(len(content.Slides), len(plan.Slides))
	for idx := 0; idx < limit; idx++ {
		if content.Slides[idx].Type != plan.Slides[idx].Type {
			g.logger.WithFields(logrus.Fields{
				"index":     idx,
				"planned":   plan.Slides[idx].Type,
				"generated": content.Slides[idx].Type,
			}).Warn("generated slide type differs from plan")
		}
	}
}

func (g *ContentGenerator) logError(fields logrus.Fields, err error, message string) {
	if g.logger == nil || err == nil {
		return
	}

	entry := g.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
