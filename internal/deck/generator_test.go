package deck

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const generatedDeckJSON = `{
  "slides": [
    {"type": "title_slide", "title": "Solar Sails Explained", "points": []},
    {"type": "overview_slide", "title": "Overview", "points": ["What solar sails are.", "Why photon pressure matters."]},
    {"type": "key_point_slide", "title": "Photon Momentum", "points": ["Light carries momentum that a large reflective sail can harvest.", "Thrust is tiny but continuous."]},
    {"type": "key_point_slide", "title": "Sail Materials", "points": ["Sails are built from aluminized films a few microns thick.", "Area to mass ratio determines acceleration."]},
    {"type": "key_point_slide", "title": "Mission History", "points": ["IKAROS demonstrated controlled solar sailing in 2010.", "LightSail 2 raised its orbit using sunlight alone."]},
    {"type": "key_point_slide", "title": "Future Missions", "points": ["Proposed probes could reach the outer planets without propellant.", "Laser driven sails may enable interstellar precursors."]},
    {"type": "conclusion_slide", "title": "Conclusion", "points": ["Solar sails trade thrust for endless propellant.", "The technology is flight proven and scaling up."]}
  ]
}`

func TestContentGeneratorParsesResponse(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{response: "```json\n" + generatedDeckJSON + "\n```"}
	stage, err := NewContentGenerator(ContentGeneratorOptions{Generator: generator, Logger: testLogger()})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	plan := BuildPlan("solar sails")
	content, err := stage.Generate(context.Background(), "solar sails", "Context sentence.", plan)
	if err != nil {
		t.Fatalf("expected content, got error: %v", err)
	}

	if len(content.Slides) != 7 {
		t.Fatalf("expected 7 slides, got %d", len(content.Slides))
	}
	if content.Slides[0].Title != "Solar Sails Explained" {
		t.Fatalf("expected parsed title, got %q", content.Slides[0].Title)
	}
	if content.Slides[2].Type != SlideTypeKeyPoint {
		t.Fatalf("expected key point slide, got %q", content.Slides[2].Type)
	}

	if !strings.Contains(generator.lastPrompt, `"solar sails"`) {
		t.Fatal("expected prompt to embed the topic")
	}
	if !strings.Contains(generator.lastPrompt, "Context sentence.") {
		t.Fatal("expected prompt to embed the web context")
	}
	if !strings.Contains(generator.lastPrompt, `"type":"title_slide"`) {
		t.Fatal("expected prompt to embed the serialized plan")
	}
}

func TestNewContentGeneratorRequiresGenerator(t *testing.T) {
	t.Parallel()

	if _, err := NewContentGenerator(ContentGeneratorOptions{}); err == nil {
		t.Fatal("expected error when generator is missing")
	}
}

func TestContentGeneratorRequiresTopic(t *testing.T) {
	t.Parallel()

	stage, err := NewContentGenerator(ContentGeneratorOptions{Generator: &fakeGenerator{response: generatedDeckJSON}})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	if _, err := stage.Generate(context.Background(), "   ", "", BuildPlan("x")); err == nil {
		t.Fatal("expected error for blank topic")
	}
}

func TestContentGeneratorWrapsCallFailure(t *testing.T) {
	t.Parallel()

	stage, err := NewContentGenerator(ContentGeneratorOptions{
		Generator: &fakeGenerator{err: eris.New("upstream unavailable")},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	_, err = stage.Generate(context.Background(), "solar sails", "", BuildPlan("solar sails"))
	if err == nil {
		t.Fatal("expected error when the model call fails")
	}
	if !eris.Is(err, ErrContentGeneration) {
		t.Fatalf("expected ErrContentGeneration, got %v", err)
	}
}

func TestContentGeneratorRejectsNonJSONResponse(t *testing.T) {
	t.Parallel()

	stage, err := NewContentGenerator(ContentGeneratorOptions{
		Generator: &fakeGenerator{response: "I cannot produce slides for that topic."},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	_, err = stage.Generate(context.Background(), "solar sails", "", BuildPlan("solar sails"))
	if err == nil {
		t.Fatal("expected error for a response without JSON")
	}
	if !eris.Is(err, ErrContentGeneration) {
		t.Fatalf("expected ErrContentGeneration, got %v", err)
	}
}

func TestContentGeneratorRejectsUnparsableJSON(t *testing.T) {
	t.Parallel()

	stage, err := NewContentGenerator(ContentGeneratorOptions{
		Generator: &fakeGenerator{response: `{"slides": [}`},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	_, err = stage.Generate(context.Background(), "solar sails", "", BuildPlan("solar sails"))
	if err == nil {
		t.Fatal("expected error for unparsable JSON")
	}
	if !eris.Is(err, ErrContentGeneration) {
		t.Fatalf("expected ErrContentGeneration, got %v", err)
	}
}

func TestContentGeneratorToleratesPlanDrift(t *testing.T) {
	t.Parallel()

	drifted := `{"slides": [
		{"type": "title_slide", "title": "Only Title", "points": []},
		{"type": "overview_slide", "title": "Short Deck", "points": ["One point."]}
	]}`
	stage, err := NewContentGenerator(ContentGeneratorOptions{
		Generator: &fakeGenerator{response: drifted},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("expected content generator, got error: %v", err)
	}

	content, err := stage.Generate(context.Background(), "solar sails", "", BuildPlan("solar sails"))
	if err != nil {
		t.Fatalf("expected drift to be tolerated, got error: %v", err)
	}
	if len(content.Slides) != 2 {
		t.Fatalf("expected the drifted 2 slides, got %d", len(content.Slides))
	}
}
