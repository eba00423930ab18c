package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	askTopK     int
	askJSON     bool
	askDocument string
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask a question about the indexed documents",
	Long: `Routes the question to the relevant documents, retrieves the closest
passages and asks the configured language model to answer from them.

Start the question with "[Search only in NAME]" or pass --document to
restrict it to one document. If the model is unavailable the retrieved
passages are shown instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "only search documents matching this name")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return notConfigured("ask")
	}

	question := strings.Join(args, " ")
	answer, err := askService.Ask(cmd.Context(), question, domain.AskOptions{
		TopK:     askTopK,
		Document: askDocument,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, answer)
	}
	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Answer)
	if len(answer.Sources) == 0 {
		return
	}

	cmd.Println()
	if len(answer.Documents) > 0 {
		cmd.Printf("Searched: %s\n", strings.Join(answer.Documents, ", "))
	}
	cmd.Println("Sources:")
	for i, s := range answer.Sources {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, s.Document, s.Relevance)
	}
}
