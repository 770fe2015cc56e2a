package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmeyers/treatybot/internal/app"
	"github.com/lmeyers/treatybot/internal/config"
)

var (
	indexManifest  string
	indexDocuments string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the passage index from extracted documents",
	Long: `Index chunks every document listed in the manifest, embeds each chunk,
and upserts the passages into the vector index. Re-running replaces the
passages of every listed document.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runIndex()
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexManifest, "manifest", "document-manifest.csv", "CSV manifest of documents to index")
	indexCmd.Flags().StringVar(&indexDocuments, "documents", "documents-json", "directory of extracted document JSON files")
	rootCmd.AddCommand(indexCmd)
}

func runIndex() error {
	if err := checkRequiredEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := initLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	total, err := a.NewIndexer().IndexDirectory(ctx, indexManifest, indexDocuments)
	if err != nil {
		return fmt.Errorf("indexing documents: %w", err)
	}

	logger.Info("index build complete", "passages", total)
	return nil
}
