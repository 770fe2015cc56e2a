package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmeyers/treatybot/internal/corpus"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the document groups available to search",
	Run: func(cmd *cobra.Command, _ []string) {
		for i, g := range corpus.Groups {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s (documents %s)\n",
				i, g.Label, strings.Join(g.DocumentIDs, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}
