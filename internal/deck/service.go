package deck

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// ErrDeckNotFound indicates the requested deck does not exist in the library.
var ErrDeckNotFound = eris.New("deck not found")

// ContextSource gathers web context for a topic.
type ContextSource interface {
	Collect(ctx context.Context, topic string) string
}

// ContentSource produces slide content for a topic and plan.
type ContentSource interface {
	Generate(ctx context.Context, topic, webContext string, plan Plan) (*Content, error)
}

// ContentEnricher augments slide content with image queries.
type ContentEnricher interface {
	Enrich(ctx context.Context, content *Content) *Content
}

// DeckAssembler renders content into a serialized deck.
type DeckAssembler interface {
	Assemble(ctx context.Context, content *Content, topic string) (*Deck, error)
}

var (
	_ ContentSource   = (*ContentGenerator)(nil)
	_ ContentEnricher = (*Enricher)(nil)
	_ DeckAssembler   = (*Assembler)(nil)
)

// Service defines the deck generation pipeline and library operations.
type Service interface {
	// Generate runs the full pipeline for a topic and stores the result.
	Generate(ctx context.Context, topic string) (*Record, error)
	// ListDecks returns the most recently generated decks, newest first.
	ListDecks(ctx context.Context, limit int) ([]Record, error)
	// GetDeck returns a stored deck by its public identifier.
	GetDeck(ctx context.Context, publicID string) (*Record, error)
	// ReadArtifact returns the stored deck document bytes.
	ReadArtifact(ctx context.Context, publicID string) (*Record, []byte, error)
}

// ServiceOptions wires the pipeline stages and the library.
type ServiceOptions struct {
	Context   ContextSource
	Content   ContentSource
	Enricher  ContentEnricher
	Assembler DeckAssembler

	Repository Repository
	Logger     *logrus.Logger
	SentryHub  *sentry.Hub

	// OutputDir receives generated deck documents.
	OutputDir string
	// ModelName is recorded on each generated deck.
	ModelName string
}

type service struct {
	contextSource ContextSource
	content       ContentSource
	enricher      ContentEnricher
	assembler     DeckAssembler
	repo          Repository
	logger        *logrus.Logger
	sentryHub     *sentry.Hub
	outputDir     string
	modelName     string
}

var _ Service = (*service)(nil)

// NewService wires the deck service with its pipeline stages.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Context == nil {
		return nil, eris.New("context source is required")
	}
	if opts.Content == nil {
		return nil, eris.New("content source is required")
	}
	if opts.Enricher == nil {
		return nil, eris.New("content enricher is required")
	}
	if opts.Assembler == nil {
		return nil, eris.New("deck assembler is required")
	}
	if opts.Repository == nil {
		return nil, eris.New("deck repository is required")
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = "."
	}

	return &service{
		contextSource: opts.Context,
		content:       opts.Content,
		enricher:      opts.Enricher,
		assembler:     opts.Assembler,
		repo:          opts.Repository,
		logger:        opts.Logger,
		sentryHub:     opts.SentryHub,
		outputDir:     outputDir,
		modelName:     strings.TrimSpace(opts.ModelName),
	}, nil
}

func (s *service) Generate(ctx context.Context, topic string) (*Record, error) {
	trimmedTopic := strings.TrimSpace(topic)
	if trimmedTopic == "" {
		return nil, eris.New("topic is required")
	}

	s.logInfo(logrus.Fields{"topic": trimmedTopic}, "starting deck generation")

	webContext := s.contextSource.Collect(ctx, trimmedTopic)
	plan := BuildPlan(trimmedTopic)

	content, err := s.content.Generate(ctx, trimmedTopic, webContext, plan)
	if err != nil {
		s.recordError(logrus.Fields{"topic": trimmedTopic}, err, "generating slide content")
		return nil, eris.Wrapf(err, "generating content for topic: %s", trimmedTopic)
	}

	enriched := s.enricher.Enrich(ctx, content)

	deck, err := s.assembler.Assemble(ctx, enriched, trimmedTopic)
	if err != nil {
		s.recordError(logrus.Fields{"topic": trimmedTopic}, err, "assembling deck")
		return nil, eris.Wrapf(err, "assembling deck for topic: %s", trimmedTopic)
	}

	artifactPath, err := s.writeArtifact(trimmedTopic, deck.PDF)
	if err != nil {
		s.recordError(logrus.Fields{"topic": trimmedTopic}, err, "writing deck artifact")
		return nil, eris.Wrapf(err, "writing artifact for topic: %s", trimmedTopic)
	}

	record := &Record{
		PublicID:       uuid.NewString(),
		Topic:          trimmedTopic,
		SlideCount:     len(deck.Slides),
		ArtifactPath:   artifactPath,
		ArtifactSize:   int64(len(deck.PDF)),
		GeneratorModel: s.modelName,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.recordError(logrus.Fields{"topic": trimmedTopic}, err, "persisting deck record")
		return nil, eris.Wrapf(err, "persisting deck for topic: %s", trimmedTopic)
	}

	s.logInfo(logrus.Fields{
		"topic":       trimmedTopic,
		"public_id":   record.PublicID,
		"slide_count": record.SlideCount,
		"artifact":    record.ArtifactPath,
	}, "deck generation complete")

	return record, nil
}

func (s *service) ListDecks(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, eris.Wrap(err, "listing decks")
	}

	return records, nil
}

func (s *service) GetDeck(ctx context.Context, publicID string) (*Record, error) {
	trimmedID := strings.TrimSpace(publicID)
	if trimmedID == "" {
		return nil, eris.New("public id is required")
	}

	record, err := s.repo.GetByPublicID(ctx, trimmedID)
	if err != nil {
		s.recordError(logrus.Fields{"public_id": trimmedID}, err, "retrieving deck record")
		return nil, eris.Wrapf(err, "retrieving deck: %s", trimmedID)
	}
	if record == nil {
		return nil, eris.Wrapf(ErrDeckNotFound, "deck %s", trimmedID)
	}

	return record, nil
}

func (s *service) ReadArtifact(ctx context.Context, publicID string) (*Record, []byte, error) {
	record, err := s.GetDeck(ctx, publicID)
	if err != nil {
		return nil, nil, err
	}

	artifact, err := os.ReadFile(record.ArtifactPath)
	if err != nil {
		s.recordError(logrus.Fields{"public_id": record.PublicID, "artifact": record.ArtifactPath}, err, "reading deck artifact")
		return nil, nil, eris.Wrapf(err, "reading artifact for deck: %s", record.PublicID)
	}

	return record, artifact, nil
}

// writeArtifact persists the document under a topic-derived name. Repeated
// runs for the same topic overwrite the previous document.
func (s *service) writeArtifact(topic string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "creating output directory: %s", s.outputDir)
	}

	path := filepath.Join(s.outputDir, "presentation-"+sanitizeFilename(topic)+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", eris.Wrapf(err, "writing artifact: %s", path)
	}

	return path, nil
}

// sanitizeFilename replaces path separators and other characters that are
// unsafe in file names.
func sanitizeFilename(topic string) string {
	replaced := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '-'
		}
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, topic)

	return strings.TrimSpace(replaced)
}

func (s *service) logInfo(fields logrus.Fields, message string) {
	if s.logger == nil {
		return
	}

	s.logger.WithFields(fields).Info(message)
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
