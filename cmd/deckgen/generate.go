package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return eris.New("topic is required")
	}

	record, err := app.decks.Generate(ctx, topic)
	if err != nil {
		return eris.Wrapf(err, "generating deck for topic: %s", topic)
	}

	app.logger.WithFields(logrus.Fields{
		"public_id":   record.PublicID,
		"slide_count": record.SlideCount,
		"artifact":    record.ArtifactPath,
	}).Info("deck stored in library")

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d slides for %q\n", record.SlideCount, record.Topic)
	fmt.Fprintf(cmd.OutOrStdout(), "Document: %s\n", record.ArtifactPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Library id: %s\n", record.PublicID)

	return nil
}
