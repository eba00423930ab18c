package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/watcher"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var (
	watchInitial  bool
	watchDebounce int
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Keep the index in sync with a directory",
	Long: `Ingests the directory, then watches it for changes until interrupted.

New and modified files are re-ingested, replacing the previous copy;
files whose content did not change are skipped. Deleted or renamed files
are removed from the index by name. Hidden files are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "ingest existing files before watching")
	watchCmd.Flags().IntVar(&watchDebounce, "debounce-ms", int(watcher.DefaultDebounce.Milliseconds()),
		"quiet period before a change is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil || documentService == nil {
		return notConfigured("ingest")
	}

	ctx := cmd.Context()
	dir := args[0]

	if watchInitial {
		report, err := ingestService.IngestPaths(ctx, []string{dir},
			domain.IngestOptions{Replace: true, SkipUnchanged: true})
		if err != nil {
			return fmt.Errorf("initial ingest failed: %w", err)
		}
		printIngestReport(cmd, report)
	}

	w := watcher.New(dir, ingestService, documentService,
		watcher.WithDebounce(msDuration(watchDebounce)))
	defer w.Close()

	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	for ev := range events {
		printWatchEvent(cmd, ev)
	}
	return nil
}

func printWatchEvent(cmd *cobra.Command, ev watcher.Event) {
	switch {
	case ev.Err != nil:
		cmd.Printf("  FAILED     %s: %v\n", ev.Change.Path, ev.Err)
	case ev.Change.Type == watcher.ChangeRemove:
		cmd.Printf("  removed    %s (%d chunks)\n", ev.Change.Name(), ev.Removed)
	case ev.Result != nil:
		cmd.Printf("  %-10s %s (%d chunks)\n", ev.Result.Status, ev.Result.Name, ev.Result.Chunks)
	}
}
