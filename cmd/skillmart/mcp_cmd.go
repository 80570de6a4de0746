package main

import (
	"github.com/spf13/cobra"

	"github.com/skillmart/skillmart/internal/config"
	mcpserver "github.com/skillmart/skillmart/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Expose the catalog to MCP clients over stdio.

Tools: search_skills, get_skill, list_categories, rebuild_catalog,
catalog_stats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			mcpserver.Version = Version
			return mcpserver.Serve(cfg)
		},
	}
}
