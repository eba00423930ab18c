// Package driving holds the use-case interfaces the CLI, TUI, MCP server
// and folder watcher call into: ingest, ask, documents, history and settings.
package driving
