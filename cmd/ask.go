package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmeyers/treatybot/internal/answer"
	"github.com/lmeyers/treatybot/internal/app"
	"github.com/lmeyers/treatybot/internal/config"
	"github.com/lmeyers/treatybot/internal/corpus"
)

var (
	askGroups      []int
	askDocuments   []string
	askTemperature float64
	askShowSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the negotiation documents",
	Long: `Ask answers a single question and exits.

By default every document group is searched. Narrow the search with
--group (indices as shown by "treatybot documents") or --document
(explicit document IDs); the two are mutually exclusive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntSliceVar(&askGroups, "group", nil, "document group indices to search")
	askCmd.Flags().StringSliceVar(&askDocuments, "document", nil, "document IDs to search")
	askCmd.Flags().Float64Var(&askTemperature, "temperature", -1, "sampling temperature in [0, 1]; default from config")
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print the assembled passage context after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := checkRequiredEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	documentIDs, err := resolveDocumentIDs(askGroups, askDocuments)
	if err != nil {
		return err
	}

	temperature := cfg.Temperature
	if askTemperature >= 0 {
		if askTemperature > 1 {
			return fmt.Errorf("temperature %v out of range [0, 1]", askTemperature)
		}
		temperature = askTemperature
	}

	ctx := context.Background()
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

	resp, err := a.Pipeline.Answer(ctx, answer.Request{
		Question:    strings.Join(args, " "),
		DocumentIDs: documentIDs,
		Temperature: temperature,
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	if askShowSources {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "--- sources ---")
		fmt.Fprintln(cmd.OutOrStdout(), resp.Sources)
	}
	return nil
}

// resolveDocumentIDs turns the selection flags into document IDs. With no
// selection at all, every document is searched.
func resolveDocumentIDs(groups []int, documents []string) ([]string, error) {
	if len(groups) > 0 && len(documents) > 0 {
		return nil, fmt.Errorf("--group and --document are mutually exclusive")
	}
	if len(documents) > 0 {
		return documents, nil
	}
	if len(groups) > 0 {
		ids, err := corpus.DocumentIDs(groups)
		if err != nil {
			return nil, err
		}
		return ids, nil
	}
	return corpus.AllDocumentIDs(), nil
}
