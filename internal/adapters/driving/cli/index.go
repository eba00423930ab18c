package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexJSON     bool
	indexResetYes bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or reset the vector index",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

var indexResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every document from the index",
	Long:  `Deletes all chunks from the vector index. Requires --yes.`,
	Args:  cobra.NoArgs,
	RunE:  runIndexReset,
}

func init() {
	indexStatsCmd.Flags().BoolVar(&indexJSON, "json", false, "output as JSON")
	indexResetCmd.Flags().BoolVar(&indexResetYes, "yes", false, "confirm the reset")

	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexResetCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	stats, err := documentService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get index stats: %w", err)
	}

	if indexJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Backend:    %s\n", stats.Backend)
	cmd.Printf("Location:   %s\n", stats.StorageLocation)
	cmd.Printf("Documents:  %d\n", stats.TotalDocuments)
	cmd.Printf("Chunks:     %d\n", stats.TotalChunks)
	if stats.Dimensions > 0 {
		cmd.Printf("Dimensions: %d\n", stats.Dimensions)
	}
	return nil
}

func runIndexReset(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document")
	}
	if !indexResetYes {
		return errors.New("refusing to reset the index without --yes")
	}

	if err := documentService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	cmd.Println("Index reset.")
	return nil
}
