package main

import (
	"context"
	stdhttp "net/http"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cpiyush04/AI-Deck-Generator/internal/config"
	appdb "github.com/cpiyush04/AI-Deck-Generator/internal/db"
	"github.com/cpiyush04/AI-Deck-Generator/internal/deck"
	"github.com/cpiyush04/AI-Deck-Generator/internal/images"
	"github.com/cpiyush04/AI-Deck-Generator/internal/llm"
	applog "github.com/cpiyush04/AI-Deck-Generator/internal/log"
	platformlog "github.com/cpiyush04/AI-Deck-Generator/internal/platform/log"
	"github.com/cpiyush04/AI-Deck-Generator/internal/render"
	"github.com/cpiyush04/AI-Deck-Generator/internal/search"
)

// application holds the composed pipeline shared by the CLI commands.
type application struct {
	cfg        *config.Config
	logger     *logrus.Logger
	sentryHub  *sentry.Hub
	flushLogs  func()
	db         *gorm.DB
	repository *deck.GormRepository
	decks      deck.Service
}

func buildApplication(ctx context.Context) (*application, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, eris.Wrap(err, "loading configuration")
	}

	logger, err := platformlog.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, eris.Wrap(err, "initialising logger")
	}

	hub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, eris.Wrap(err, "initialising sentry")
	}

	dbConn, err := appdb.Open(appdb.Options{Path: cfg.DBPath})
	if err != nil {
		flush()
		return nil, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapped error) (*application, error) {
		if closeErr := appdb.Close(dbConn); closeErr != nil {
			logger.WithError(closeErr).Error("closing database after startup failure")
		}
		flush()
		return nil, wrapped
	}

	if err := deck.Migrate(ctx, dbConn, logger); err != nil {
		return closeOnError(eris.Wrap(err, "running migrations"))
	}

	repository, err := deck.NewRepository(dbConn, logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "building deck repository"))
	}

	generator, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return closeOnError(err)
	}

	aggregator, err := buildAggregator(ctx, cfg, logger)
	if err != nil {
		return closeOnError(err)
	}

	imageSource, err := buildImageSource(ctx, cfg, logger)
	if err != nil {
		return closeOnError(err)
	}

	theme := render.DefaultTheme()
	if cfg.ThemePath != "" {
		theme, err = render.LoadTheme(cfg.ThemePath)
		if err != nil {
			return closeOnError(eris.Wrap(err, "loading theme"))
		}
	}

	renderer, err := render.NewRenderer(render.RendererOptions{Theme: theme, Logger: logger})
	if err != nil {
		return closeOnError(eris.Wrap(err, "building renderer"))
	}

	contentStage, err := deck.NewContentGenerator(deck.ContentGeneratorOptions{
		Generator: generator,
		Logger:    logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "building content generator"))
	}

	enricher, err := deck.NewEnricher(deck.EnricherOptions{
		Generator: generator,
		Logger:    logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "building enricher"))
	}

	assembler, err := deck.NewAssembler(deck.AssemblerOptions{
		Renderer: renderer,
		Images:   imageSource,
		Logger:   logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "building assembler"))
	}

	decks, err := deck.NewService(deck.ServiceOptions{
		Context:    aggregator,
		Content:    contentStage,
		Enricher:   enricher,
		Assembler:  assembler,
		Repository: repository,
		Logger:     logger,
		SentryHub:  hub,
		OutputDir:  cfg.OutputDir,
		ModelName:  cfg.LLMModel,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating deck service"))
	}

	return &application{
		cfg:        cfg,
		logger:     logger,
		sentryHub:  hub,
		flushLogs:  flush,
		db:         dbConn,
		repository: repository,
		decks:      decks,
	}, nil
}

// Close releases the application resources in reverse construction order.
func (a *application) Close() {
	if closeErr := appdb.Close(a.db); closeErr != nil {
		a.logger.WithError(closeErr).Error("closing database")
	}
	a.flushLogs()
}

func buildGenerator(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (llm.Generator, error) {
	if cfg.LLMProvider == config.ProviderGemini {
		apiKey := cfg.GoogleAPIKey
		if apiKey == "" {
			apiKey = cfg.LLMAPIKey
		}

		generator, err := llm.NewGeminiGenerator(ctx, llm.GeminiOptions{
			APIKey: apiKey,
			Model:  cfg.LLMModel,
			Logger: logger,
		})
		if err != nil {
			return nil, eris.Wrap(err, "initialising gemini generator")
		}
		return generator, nil
	}

	client, err := llm.NewClient(llm.ClientOptions{
		APIKey:     cfg.LLMAPIKey,
		BaseURL:    cfg.LLMEndpoint,
		HTTPClient: &stdhttp.Client{Timeout: cfg.LLMTimeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating llm client")
	}

	generator, err := llm.NewGenerator(llm.GeneratorOptions{
		Client: client,
		Model:  cfg.LLMModel,
	})
	if err != nil {
		return nil, eris.Wrap(err, "initialising generator")
	}
	return generator, nil
}

func buildAggregator(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*search.Aggregator, error) {
	backends := []search.Backend{search.NewDuckDuckGo(search.DuckDuckGoOptions{})}

	if cfg.GoogleSearchAPIKey != "" && cfg.CustomSearchEngineID != "" {
		google, err := search.NewGoogle(ctx, search.GoogleOptions{
			APIKey:   cfg.GoogleSearchAPIKey,
			EngineID: cfg.CustomSearchEngineID,
		})
		if err != nil {
			return nil, eris.Wrap(err, "initialising google search backend")
		}
		backends = append(backends, google)
	} else {
		logger.Info("google web search disabled; set GOOGLE_SEARCH_API_KEY and CUSTOM_SEARCH_ENGINE_ID to enable it")
	}

	aggregator, err := search.NewAggregator(search.AggregatorOptions{
		Backends: backends,
		Logger:   logger,
		Timeout:  cfg.SearchTimeout,
	})
	if err != nil {
		return nil, eris.Wrap(err, "building search aggregator")
	}
	return aggregator, nil
}

func buildImageSource(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (images.Source, error) {
	if cfg.GoogleSearchAPIKey == "" || cfg.CustomSearchEngineID == "" {
		logger.Info("image search disabled; key point slides render without images")
		return nil, nil
	}

	searcher, err := images.NewGoogleSearcher(ctx, images.GoogleSearcherOptions{
		APIKey:   cfg.GoogleSearchAPIKey,
		EngineID: cfg.CustomSearchEngineID,
	})
	if err != nil {
		return nil, eris.Wrap(err, "initialising image searcher")
	}

	service, err := images.NewService(images.ServiceOptions{
		Searcher: searcher,
		Logger:   logger,
		Timeout:  cfg.ImageTimeout,
	})
	if err != nil {
		return nil, eris.Wrap(err, "building image service")
	}
	return service, nil
}
