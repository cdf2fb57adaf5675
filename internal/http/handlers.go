package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/cpiyush04/AI-Deck-Generator/internal/db"
	"github.com/cpiyush04/AI-Deck-Generator/internal/deck"
)

const (
	pdfContentType       = "application/pdf"
	defaultListLimit     = 20
	errorFallbackMessage = "We couldn't process your request right now."
)

// deckView is the API representation of a stored deck.
type deckView struct {
	ID             string    `json:"id" doc:"Public deck identifier"`
	Topic          string    `json:"topic"`
	SlideCount     int       `json:"slide_count"`
	ArtifactSize   int64     `json:"artifact_size"`
	ArtifactURL    string    `json:"artifact_url"`
	GeneratorModel string    `json:"generator_model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type createDeckInput struct {
	Body struct {
		Topic string `json:"topic" doc:"Presentation topic"`
	}
}

type createDeckOutput struct {
	Body deckView
}

type listDecksInput struct {
	Limit int `query:"limit" doc:"Maximum number of decks to return"`
}

type listDecksOutput struct {
	Body struct {
		Decks []deckView `json:"decks"`
	}
}

type getDeckInput struct {
	ID string `path:"id"`
}

type getDeckOutput struct {
	Body deckView
}

type artifactOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Decks    int64  `json:"decks"`
	}
}

func (s *Server) registerDeckRoutes() {
	huma.Post(s.api, "/decks", s.createDeckHandler, func(op *huma.Operation) {
		op.Summary = "Generate a deck"
		op.DefaultStatus = stdhttp.StatusCreated
	})
	huma.Get(s.api, "/decks", s.listDecksHandler, func(op *huma.Operation) {
		op.Summary = "List generated decks"
	})
	huma.Get(s.api, "/decks/{id}", s.getDeckHandler, func(op *huma.Operation) {
		op.Summary = "Fetch one deck"
	})
	huma.Get(s.api, "/decks/{id}/artifact", s.artifactHandler, func(op *huma.Operation) {
		op.Summary = "Download the deck document"
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}
		op.Responses["200"] = &huma.Response{
			Description: "PDF document",
			Content: map[string]*huma.MediaType{
				pdfContentType: {Schema: &huma.Schema{Type: "string", Format: "binary"}},
			},
		}
	})
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) createDeckHandler(ctx context.Context, input *createDeckInput) (*createDeckOutput, error) {
	topic := strings.TrimSpace(input.Body.Topic)
	if topic == "" {
		return nil, huma.Error400BadRequest("topic is required")
	}

	record, err := s.decks.Generate(ctx, topic)
	if err != nil {
		s.recordError(ctx, err, "generating deck", logrus.Fields{"topic": topic})

		switch {
		case eris.Is(err, deck.ErrContentGeneration):
			return nil, huma.Error502BadGateway("the model did not return usable slide content")
		case eris.Is(err, deck.ErrMalformedContent):
			return nil, huma.Error502BadGateway("the generated content could not be assembled into a deck")
		default:
			return nil, huma.Error500InternalServerError(errorFallbackMessage)
		}
	}

	return &createDeckOutput{Body: viewFromRecord(record)}, nil
}

func (s *Server) listDecksHandler(ctx context.Context, input *listDecksInput) (*listDecksOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, err := s.decks.ListDecks(ctx, limit)
	if err != nil {
		s.recordError(ctx, err, "listing decks", nil)
		return nil, huma.Error500InternalServerError(errorFallbackMessage)
	}

	out := &listDecksOutput{}
	out.Body.Decks = make([]deckView, 0, len(records))
	for idx := range records {
		out.Body.Decks = append(out.Body.Decks, viewFromRecord(&records[idx]))
	}

	return out, nil
}

func (s *Server) getDeckHandler(ctx context.Context, input *getDeckInput) (*getDeckOutput, error) {
	record, err := s.decks.GetDeck(ctx, input.ID)
	if err != nil {
		if eris.Is(err, deck.ErrDeckNotFound) {
			return nil, huma.Error404NotFound("deck not found")
		}
		s.recordError(ctx, err, "loading deck", logrus.Fields{"deck_id": input.ID})
		return nil, huma.Error500InternalServerError(errorFallbackMessage)
	}

	return &getDeckOutput{Body: viewFromRecord(record)}, nil
}

func (s *Server) artifactHandler(ctx context.Context, input *getDeckInput) (*artifactOutput, error) {
	record, artifact, err := s.decks.ReadArtifact(ctx, input.ID)
	if err != nil {
		if eris.Is(err, deck.ErrDeckNotFound) {
			return nil, huma.Error404NotFound("deck not found")
		}
		s.recordError(ctx, err, "reading deck artifact", logrus.Fields{"deck_id": input.ID})
		return nil, huma.Error500InternalServerError(errorFallbackMessage)
	}

	return &artifactOutput{
		ContentType:        pdfContentType,
		ContentDisposition: fmt.Sprintf("inline; filename=%q", filepath.Base(record.ArtifactPath)),
		Body:               artifact,
	}, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Body.Database == "ok" {
		count, countErr := s.repository.Count(ctx)
		if countErr != nil {
			s.recordError(ctx, countErr, "counting decks", nil)
			resp.Body.Status = "degraded"
			resp.Body.Database = "error"
			resp.Status = stdhttp.StatusServiceUnavailable
		} else {
			resp.Body.Decks = count
		}
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

func viewFromRecord(record *deck.Record) deckView {
	return deckView{
		ID:             record.PublicID,
		Topic:          record.Topic,
		SlideCount:     record.SlideCount,
		ArtifactSize:   record.ArtifactSize,
		ArtifactURL:    "/decks/" + record.PublicID + "/artifact",
		GeneratorModel: record.GeneratorModel,
		CreatedAt:      record.CreatedAt,
	}
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
