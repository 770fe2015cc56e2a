// Package cmd implements the treatybot command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmeyers/treatybot/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "treatybot",
	Short: "Question answering over the UN BBNJ negotiation documents",
	Long: `treatybot answers questions about the UN Biodiversity Beyond National
Jurisdiction (BBNJ) treaty negotiations, grounded in the negotiation record:
draft agreements, party statements, and Earth Negotiations Bulletin reports.

Passages are retrieved from a PostgreSQL vector index and assembled into a
token-budgeted context before the model answers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogger builds the process logger. DEBUG in the environment switches
// to debug level.
func initLogger() log.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

// checkRequiredEnv verifies the Gemini API key is present before any
// command that talks to the model. The Genkit plugin reads it directly.
func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "treatybot requires a Gemini API key to embed and answer questions.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "To set your API key:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}
