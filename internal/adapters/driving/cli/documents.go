package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage indexed documents",
	Long:    `List indexed documents or remove them from the index.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print distinct document names",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsNames,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete DOC_ID",
	Short: "Remove a document by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsDeleteNameCmd = &cobra.Command{
	Use:   "delete-name NAME",
	Short: "Remove every document with the given name",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDeleteName,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsNamesCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsDeleteNameCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].Name)
		if docs[i].Path != "" {
			cmd.Printf("    Path:   %s\n", docs[i].Path)
		}
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		if !docs[i].AddedAt.IsZero() {
			cmd.Printf("    Added:  %s\n", docs[i].AddedAt.Local().Format("2006-01-02 15:04:05"))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsNames(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	names, err := documentService.Names(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list document names: %w", err)
	}
	for _, n := range names {
		cmd.Println(n)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	n, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		cmd.Printf("No document with id %s.\n", args[0])
		return nil
	}
	cmd.Printf("Deleted document %s (%d chunks).\n", args[0], n)
	return nil
}

func runDocumentsDeleteName(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	n, err := documentService.DeleteByName(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", args[0], err)
	}
	cmd.Printf("Deleted %s (%d chunks).\n", args[0], n)
	return nil
}
