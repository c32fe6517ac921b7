package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/db"
	mcpserver "github.com/symbolica-app/symbolica/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing quest enrichment and symbol search tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(dbPath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		pipeline, err := buildPipeline(cfg, nil)
		if err != nil {
			return err
		}
		index, err := loadIndex(cfg)
		if err != nil {
			return err
		}
		store := catalog.NewStore(database)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "symbolica MCP server started on stdio (db=%s, symbols=%d)\n", dbPath(cfg), index.Count())

		srv := mcpserver.NewServer(store, pipeline, index)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
