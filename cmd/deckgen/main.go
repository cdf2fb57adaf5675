package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "AI powered slide deck generator",
	Long: `deckgen turns a topic into a complete slide deck: it gathers web
context, asks a language model to write the slides, decorates key points with
stock imagery, and renders everything into a PDF stored in the deck library.`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a deck for a topic and store it in the library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deck library over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
