package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the index and AI providers",
	Long: `Reports index statistics and pings the configured embedding and
answer providers. Failures are reported, not returned, so the command can
be used to diagnose a broken setup.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || documentService == nil {
		return notConfigured("settings")
	}

	ctx := cmd.Context()
	settings := settingsService.Get()

	stats, err := documentService.Stats(ctx)
	if err != nil {
		cmd.Printf("Index:      %s FAILED: %v\n", settings.Index.Backend, err)
	} else {
		cmd.Printf("Index:      %s at %s (%d documents, %d chunks)\n",
			stats.Backend, stats.StorageLocation, stats.TotalDocuments, stats.TotalChunks)
	}

	cmd.Printf("Embedding:  %s %s ", settings.Embedding.Provider.Description(), settings.Embedding.Model)
	printPing(cmd, ctx, settingsService.ValidateEmbeddingConfig)

	cmd.Printf("LLM:        %s %s ", settings.LLM.Provider.Description(), settings.LLM.Model)
	printPing(cmd, ctx, settingsService.ValidateLLMConfig)

	return nil
}

func printPing(cmd *cobra.Command, ctx context.Context, ping func(context.Context) error) {
	if err := ping(ctx); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return
	}
	cmd.Println("OK")
}
