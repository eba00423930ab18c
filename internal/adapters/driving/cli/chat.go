package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
)

var chatOpen string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive terminal interface",
	Long: `Open a full-screen terminal interface for asking questions, browsing
the sources behind each answer, managing indexed documents and reviewing
history.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatOpen, "open", "menu",
		"screen to start on ("+strings.Join(messages.ViewNames(), ", ")+")")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	start, err := messages.ParseView(chatOpen)
	if err != nil {
		return err
	}
	app, err := tui.NewApp(tui.NewPorts(askService, documentService, historyService))
	if err != nil {
		return err
	}
	return app.WithContext(cmd.Context()).WithStartView(start).Run()
}
