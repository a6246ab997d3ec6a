package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	kgmcp "github.com/ajitpratap0/openclaw-kg/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  kg_query        — entity + active facts
  kg_search       — substring search with match reasons
  kg_add_fact     — record a fact on an entity
  kg_add_relation — record a typed edge between entities
  kg_connections  — outbound (and optionally inbound) edges
  kg_stats        — aggregate counts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			svc, err := newService(logger)
			if err != nil {
				// Log to stderr and continue with a nil service.
				// Tool calls will return per-call errors rather than crashing.
				logger.Error("mcp: failed to open store; tool calls will fail", "error", err)
			}

			srv := kgmcp.NewServer(svc, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: openclaw-kg MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
