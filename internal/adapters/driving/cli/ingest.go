package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	ingestReplace       bool
	ingestSkipUnchanged bool
	ingestJSON          bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest PATH...",
	Short: "Add files or directories to the index",
	Long: `Extracts text from each file, splits it into overlapping word windows,
embeds the windows and stores them in the vector index.

Directories are walked recursively; hidden files and unsupported formats
are skipped. Ingesting a file whose name is already indexed adds a second
copy unless --replace is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "replace documents with the same name")
	ingestCmd.Flags().BoolVar(&ingestSkipUnchanged, "skip-unchanged", false,
		"skip files whose name and content are already indexed")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	opts := domain.IngestOptions{Replace: ingestReplace, SkipUnchanged: ingestSkipUnchanged}
	report, err := ingestService.IngestPaths(cmd.Context(), args, opts)
	if report != nil {
		if ingestJSON {
			if jsonErr := printJSON(cmd, report); jsonErr != nil {
				return jsonErr
			}
		} else {
			printIngestReport(cmd, report)
		}
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if report != nil && report.Failed() {
		return fmt.Errorf("%d of %d files failed", report.Count(domain.IngestStatusFailed), len(report.Results))
	}
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	for _, r := range report.Results {
		switch r.Status {
		case domain.IngestStatusFailed:
			cmd.Printf("  FAILED     %s: %s\n", r.Path, r.Error)
		case domain.IngestStatusReplaced:
			cmd.Printf("  replaced   %s (%d chunks, %d removed)\n", r.Name, r.Chunks, r.Removed)
		default:
			cmd.Printf("  %-10s %s (%d chunks)\n", r.Status, r.Name, r.Chunks)
		}
	}
	cmd.Printf("\n%d added, %d replaced, %d unchanged, %d empty, %d failed\n",
		report.Count(domain.IngestStatusAdded),
		report.Count(domain.IngestStatusReplaced),
		report.Count(domain.IngestStatusUnchanged),
		report.Count(domain.IngestStatusEmpty),
		report.Count(domain.IngestStatusFailed))
}
