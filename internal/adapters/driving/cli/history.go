package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear past questions",
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recent questions and answers",
	Args:  cobra.NoArgs,
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the interaction log",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyShowCmd.Flags().IntVarP(&historyLimit, "limit", "n", domain.DefaultHistoryLimit, "number of entries")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryShow(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return notConfigured("history")
	}

	entries, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No history yet.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("[%s] Q: %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Question)
		cmd.Printf("A: %s\n", e.Answer)
		for _, s := range e.Sources {
			cmd.Printf("   - %s (%.3f)\n", s.Document, s.Relevance)
		}
		cmd.Println()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return notConfigured("history")
	}

	if err := historyService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}
