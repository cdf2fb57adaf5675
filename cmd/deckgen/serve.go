package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	apphttp "github.com/cpiyush04/AI-Deck-Generator/internal/http"
)

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := buildApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	transport, err := apphttp.NewServer(apphttp.Options{
		DeckService: app.decks,
		Repository:  app.repository,
		Database:    app.db,
		Logger:      app.logger,
		SentryHub:   app.sentryHub,
		RateLimiter: apphttp.RateLimiterSettings{
			RequestsPerSecond: app.cfg.RateLimit.RequestsPerSecond,
			Burst:             app.cfg.RateLimit.Burst,
			ClientTTL:         app.cfg.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return eris.Wrap(err, "initialising http transport")
	}
	defer transport.Close()

	logLibraryState(ctx, app)

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", app.cfg.ServerPort),
		Handler: transport.Handler(),
	}

	app.logger.WithFields(logrus.Fields{
		"addr": httpServer.Addr,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	app.logger.Info("http server shut down cleanly")
	return nil
}

func logLibraryState(ctx context.Context, app *application) {
	count, err := app.repository.Count(ctx)
	if err != nil {
		app.logger.WithError(err).Warn("counting stored decks")
		return
	}

	fields := logrus.Fields{"decks": count}
	if latest, err := app.repository.MostRecent(ctx); err == nil && latest != nil {
		fields["latest_topic"] = latest.Topic
		fields["latest_id"] = latest.PublicID
	}

	app.logger.WithFields(fields).Info("deck library ready")
}
