package main

import (
	"createmvp/internal/logging"
	"createmvp/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalogs to AI editors over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout.

Besides list_categories, search_catalog and get_catalog_record, every
Cursor and Windsurf rule with a description is exposed as its own tool.
Logs go to stderr. Example editor configuration:

  {"mcpServers": {"createmvp": {"command": "createmvp", "args": ["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewStderrLogger().With("component", "mcp")
		_, store, err := openStore(logger)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(store, logger, Version)
		logger.Info("Starting MCP server", "version", Version, "rule_tools", len(srv.RuleTools()))
		return srv.Start()
	},
}
