package cli

import (
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose ragdesk to MCP clients",
	Long: `Serve the document index to AI assistants over the Model Context Protocol.

Tools: ingest_document, ask_question, list_documents, delete_document,
get_stats, get_history, clear_history.
Resources: ragdesk://documents, ragdesk://documents/{doc_id or name},
ragdesk://history, ragdesk://stats.

Without --port the server speaks JSON-RPC over stdio, which is what
desktop assistants launch:

  {
    "mcpServers": {
      "ragdesk": {"command": "/path/to/ragdesk", "args": ["mcp", "serve"]}
    }
  }

With --port it serves streamable HTTP instead:

  ragdesk mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "HTTP listen host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if askService == nil || documentService == nil {
		return notConfigured("ask")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:      askService,
		Document: documentService,
		Ingest:   ingestService,
		History:  historyService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}

	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
