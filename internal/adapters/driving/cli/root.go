// Package cli provides the ragdesk command line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the core services the commands drive.
type Services struct {
	Ingest    driving.IngestService
	Ask       driving.AskService
	Documents driving.DocumentService
	History   driving.HistoryService
	Settings  driving.SettingsService

	// Models lists locally installed Ollama models. Optional.
	Models driven.ModelLister
}

var (
	ingestService   driving.IngestService
	askService      driving.AskService
	documentService driving.DocumentService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	modelLister     driven.ModelLister
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragdesk",
	Short: "Ask questions about your local documents",
	Long: `ragdesk indexes local documents into a vector index and answers
questions about them with a language model, citing the passages it used.

Get started:
  ragdesk ingest ~/Documents/notes
  ragdesk ask "what did we decide about the launch date?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices wires the core services into the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	askService = s.Ask
	documentService = s.Documents
	historyService = s.History
	settingsService = s.Settings
	modelLister = s.Models
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops long-running
// commands such as watch and mcp serve.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
